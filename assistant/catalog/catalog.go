// Package catalog holds the static registry of operations the assistant may
// invoke on the model's request. The catalog is immutable after process
// start: adding an operation is a code change, never a runtime registration,
// so every parameter schema is statically known for validation.
package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/assistant/llm"
	"github.com/lumenhr/lumen/store"
)

// HandlerFunc executes one operation with schema-validated arguments on
// behalf of an acting employee.
type HandlerFunc func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error)

// OperationSpec describes one invocable operation: what the model sees
// (name, description, parameter schema), whether it mutates persisted state,
// the named guardrails gating it, and the handler that runs it.
type OperationSpec struct {
	Name        string
	Description string
	Parameters  *llm.JSONSchema
	Mutating    bool
	Guardrails  []string
	Handler     HandlerFunc
}

// Catalog is the operation registry. List returns specs in registration
// order so prompts are reproducible.
type Catalog struct {
	order []string
	specs map[string]*OperationSpec
}

func New(specs ...*OperationSpec) (*Catalog, error) {
	c := &Catalog{
		specs: make(map[string]*OperationSpec, len(specs)),
	}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New("operation name is required")
		}
		if _, ok := c.specs[spec.Name]; ok {
			return nil, errors.Errorf("duplicate operation: %s", spec.Name)
		}
		if spec.Parameters == nil {
			return nil, errors.Errorf("operation %s has no parameter schema", spec.Name)
		}
		if spec.Handler == nil {
			return nil, errors.Errorf("operation %s has no handler", spec.Name)
		}
		c.specs[spec.Name] = spec
		c.order = append(c.order, spec.Name)
	}
	return c, nil
}

// List returns all specs in registration order.
func (c *Catalog) List() []*OperationSpec {
	list := make([]*OperationSpec, 0, len(c.order))
	for _, name := range c.order {
		list = append(list, c.specs[name])
	}
	return list
}

// Get returns the spec for a name. Unknown names are a map miss, not an
// error value; the executor turns them into an UnknownOperation failure.
func (c *Catalog) Get(name string) (*OperationSpec, bool) {
	spec, ok := c.specs[name]
	return spec, ok
}

// Descriptors converts the catalog to the tool list sent to the model.
func (c *Catalog) Descriptors() []llm.ToolDescriptor {
	descriptors := make([]llm.ToolDescriptor, 0, len(c.order))
	for _, spec := range c.List() {
		descriptors = append(descriptors, llm.ToolDescriptor{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.Parameters,
		})
	}
	return descriptors
}
