// Package hr implements the backing HR capabilities the assistant invokes:
// leave, attendance, timesheets, expenses, approvals, payroll and policies.
// Every method is a plain query or mutation against the store; conversational
// concerns (schema validation, guardrails) live one layer up.
package hr

import (
	"context"
	"time"

	"github.com/lumenhr/lumen/store"
)

// Service exposes the HR domain operations on top of the store.
type Service struct {
	store *store.Store

	// now is swappable in tests.
	now func() time.Time
}

func NewService(st *store.Store) *Service {
	return &Service{
		store: st,
		now:   time.Now,
	}
}

// LookupEmployee resolves the employee record behind a chat user. Returns
// nil when the user has no employee profile.
func (s *Service) LookupEmployee(ctx context.Context, userID string) (*store.Employee, error) {
	return s.store.GetEmployee(ctx, &store.FindEmployee{UserID: &userID})
}
