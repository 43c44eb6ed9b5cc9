package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenhr/lumen/assistant/llm"
	"github.com/lumenhr/lumen/store"
)

func noopHandler(context.Context, *store.Employee, map[string]any) (any, error) {
	return nil, nil
}

func spec(name string) *OperationSpec {
	return &OperationSpec{
		Name:        name,
		Description: name,
		Parameters:  &llm.JSONSchema{Type: "object"},
		Handler:     noopHandler,
	}
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	c, err := New(spec("clockIn"), spec("applyLeave"), spec("getPayslips"))
	require.NoError(t, err)

	var names []string
	for _, s := range c.List() {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"clockIn", "applyLeave", "getPayslips"}, names)

	descriptors := c.Descriptors()
	require.Len(t, descriptors, 3)
	require.Equal(t, "clockIn", descriptors[0].Name)
}

func TestGetUnknownIsMapMiss(t *testing.T) {
	c, err := New(spec("clockIn"))
	require.NoError(t, err)

	_, ok := c.Get("launchMissiles")
	require.False(t, ok)

	got, ok := c.Get("clockIn")
	require.True(t, ok)
	require.Equal(t, "clockIn", got.Name)
}

func TestNewRejectsDuplicatesAndIncompleteSpecs(t *testing.T) {
	_, err := New(spec("clockIn"), spec("clockIn"))
	require.Error(t, err)

	_, err = New(&OperationSpec{Name: "x", Parameters: &llm.JSONSchema{Type: "object"}})
	require.Error(t, err)

	_, err = New(&OperationSpec{Name: "x", Handler: noopHandler})
	require.Error(t, err)
}
