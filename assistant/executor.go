// Package assistant implements the conversational action orchestrator: it
// resolves a free-form user message into operation invocations via the
// model, enforces guardrails, executes the operations against the HR
// services, and synthesizes a final narrative response.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lumenhr/lumen/assistant/catalog"
	"github.com/lumenhr/lumen/store"
)

// ErrorKind classifies invocation failures. Failures are data, never
// panics: every kind is visible to the follow-up synthesis so the narrative
// can explain what went wrong.
type ErrorKind string

const (
	ErrUnknownOperation            ErrorKind = "UnknownOperation"
	ErrInvalidArguments            ErrorKind = "InvalidArguments"
	ErrGuardrailDenied             ErrorKind = "GuardrailDenied"
	ErrGuardrailNotEvaluated       ErrorKind = "GuardrailNotEvaluated"
	ErrBackingServiceError         ErrorKind = "BackingServiceError"
	ErrIntentResolutionUnavailable ErrorKind = "IntentResolutionUnavailable"
)

// InvocationRequest is one requested operation within a turn. RawArguments
// is the unvalidated payload from the model. GuardrailsEvaluated is set by
// the orchestrator after the guardrail pass; the executor refuses mutating
// requests without it.
type InvocationRequest struct {
	OperationName       string
	RawArguments        map[string]any
	TurnID              string
	GuardrailsEvaluated bool
}

// InvocationResult is the outcome of one invocation. Either Output is set
// (success) or ErrorKind/Message are (failure).
type InvocationResult struct {
	OperationName string    `json:"operationName"`
	Success       bool      `json:"success"`
	Output        any       `json:"output,omitempty"`
	ErrorKind     ErrorKind `json:"errorKind,omitempty"`
	Message       string    `json:"message,omitempty"`
}

func successResult(name string, output any) *InvocationResult {
	return &InvocationResult{OperationName: name, Success: true, Output: output}
}

func failureResult(name string, kind ErrorKind, message string) *InvocationResult {
	return &InvocationResult{OperationName: name, ErrorKind: kind, Message: message}
}

// Summary is the short outcome description persisted with the turn.
func (r *InvocationResult) Summary() string {
	if r.Success {
		return "success"
	}
	return fmt.Sprintf("%s: %s", r.ErrorKind, r.Message)
}

// Executor validates and runs single invocations. It holds no mutable
// state; a per-operation timeout bounds each backing call.
type Executor struct {
	catalog *catalog.Catalog
	timeout time.Duration
}

func NewExecutor(c *catalog.Catalog, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Executor{catalog: c, timeout: timeout}
}

// Execute runs one invocation to a result. Side effects happen only at the
// handler call, and only when the spec lookup, schema validation, and (for
// mutating operations) the guardrail precondition all passed. There is no
// rollback across invocations in a turn; each is an independent unit of
// work.
func (e *Executor) Execute(ctx context.Context, actor *store.Employee, req *InvocationRequest) *InvocationResult {
	spec, ok := e.catalog.Get(req.OperationName)
	if !ok {
		return failureResult(req.OperationName, ErrUnknownOperation, fmt.Sprintf("unknown operation: %s", req.OperationName))
	}

	validated, validationErrs := spec.Parameters.Validate(req.RawArguments)
	if len(validationErrs) > 0 {
		details := make([]string, 0, len(validationErrs))
		for _, ve := range validationErrs {
			details = append(details, ve.Error())
		}
		return failureResult(req.OperationName, ErrInvalidArguments, strings.Join(details, "; "))
	}

	// Defensive: unreachable given orchestration order, but a mutating
	// handler must never run without its guardrails having been checked.
	if spec.Mutating && !req.GuardrailsEvaluated {
		return failureResult(req.OperationName, ErrGuardrailNotEvaluated, "guardrails were not evaluated for this request")
	}

	opCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	output, err := spec.Handler(opCtx, actor, validated)
	if err != nil {
		return failureResult(req.OperationName, ErrBackingServiceError, err.Error())
	}
	return successResult(req.OperationName, output)
}
