package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumenhr/lumen/assistant/catalog"
	"github.com/lumenhr/lumen/assistant/guardrail"
	"github.com/lumenhr/lumen/assistant/llm"
	"github.com/lumenhr/lumen/assistant/metrics"
	"github.com/lumenhr/lumen/hr"
	"github.com/lumenhr/lumen/store"
)

// FunctionCall is one operation invocation surfaced in the chat response,
// mirroring what the model requested and what came back.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result"`
}

// ChatResult is the outcome of one orchestrated turn.
type ChatResult struct {
	SessionID     string         `json:"sessionId"`
	Message       string         `json:"message"`
	FunctionCalls []FunctionCall `json:"functionCalls"`
}

// Orchestrator drives one chat turn end to end: resolve the message to
// operation invocations, gate them through guardrails, execute, persist the
// turn, and synthesize the narrative reply.
type Orchestrator struct {
	llm        llm.Service
	store      *store.Store
	hr         *hr.Service
	catalog    *catalog.Catalog
	guardrails *guardrail.Engine
	executor   *Executor
	exporter   *metrics.PrometheusExporter
}

// NewOrchestrator wires the orchestrator. llmSvc may be nil when no model is
// configured; turns then degrade to the static fallback so the rest of the
// system stays usable. exporter may be nil to disable metrics.
func NewOrchestrator(llmSvc llm.Service, st *store.Store, hrSvc *hr.Service, exporter *metrics.PrometheusExporter) (*Orchestrator, error) {
	operationCatalog, err := NewCatalog(hrSvc)
	if err != nil {
		return nil, err
	}
	engine, err := guardrail.NewEngine()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		llm:        llmSvc,
		store:      st,
		hr:         hrSvc,
		catalog:    operationCatalog,
		guardrails: engine,
		executor:   NewExecutor(operationCatalog, 15*time.Second),
		exporter:   exporter,
	}, nil
}

// Chat runs one turn for the user. The returned result always carries a
// user-facing message; failures degrade to canned text rather than
// propagating as errors. Only storage failures surface as errors.
func (o *Orchestrator) Chat(ctx context.Context, userID, sessionUID, message string) (*ChatResult, error) {
	start := time.Now()
	result, err := o.chat(ctx, userID, sessionUID, message)
	if o.exporter != nil {
		mode := "text"
		if result != nil && len(result.FunctionCalls) > 0 {
			mode = "tool_call"
		}
		o.exporter.RecordChatRequest(mode, time.Since(start), err == nil)
	}
	return result, err
}

func (o *Orchestrator) chat(ctx context.Context, userID, sessionUID, message string) (*ChatResult, error) {
	employee, err := o.hr.LookupEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		// No profile means no session to own; nothing is persisted.
		return &ChatResult{SessionID: sessionUID, Message: noProfileMessage, FunctionCalls: []FunctionCall{}}, nil
	}

	// FunctionCalls marshals as an empty array, not null, on text-only turns.
	result := &ChatResult{SessionID: sessionUID, FunctionCalls: []FunctionCall{}}

	if o.llm == nil {
		result.Message = fallbackMessage
		if err := o.persistTurn(ctx, userID, sessionUID, message, result, nil); err != nil {
			return nil, err
		}
		return result, nil
	}

	messages := []llm.Message{
		llm.SystemPrompt(systemDirective(employee)),
		llm.UserMessage(message),
	}

	response, stats, err := o.llm.ChatWithTools(ctx, messages, o.catalog.Descriptors())
	o.recordLLMStats(stats)
	if err != nil {
		slog.Error("intent resolution failed", "error", err, "userID", userID)
		result.Message = fallbackMessage
		if err := o.persistTurn(ctx, userID, sessionUID, message, result, nil); err != nil {
			return nil, err
		}
		return result, nil
	}

	if len(response.ToolCalls) == 0 {
		result.Message = response.Content
		if result.Message == "" {
			result.Message = defaultHelpMessage
		}
		if err := o.persistTurn(ctx, userID, sessionUID, message, result, nil); err != nil {
			return nil, err
		}
		return result, nil
	}

	invocationResults := o.runInvocations(ctx, employee, response.ToolCalls)

	result.FunctionCalls = make([]FunctionCall, len(response.ToolCalls))
	invocations := make([]*store.TurnInvocation, len(response.ToolCalls))
	for i, toolCall := range response.ToolCalls {
		var args map[string]any
		// Best effort for the audit record; parse failures already produced
		// an InvalidArguments result.
		_ = json.Unmarshal([]byte(toolCall.Function.Arguments), &args)
		result.FunctionCalls[i] = FunctionCall{
			Name:      toolCall.Function.Name,
			Arguments: args,
			Result:    invocationResults[i],
		}
		invocations[i] = &store.TurnInvocation{
			Name:           toolCall.Function.Name,
			Arguments:      toolCall.Function.Arguments,
			OutcomeSummary: invocationResults[i].Summary(),
		}
	}

	result.Message = o.synthesize(ctx, messages, response, invocationResults)
	if err := o.persistTurn(ctx, userID, sessionUID, message, result, invocations); err != nil {
		return nil, err
	}
	return result, nil
}

// runInvocations gates each requested call through its guardrails, then
// executes the admitted ones concurrently. Results keep the model's request
// order regardless of completion order.
func (o *Orchestrator) runInvocations(ctx context.Context, employee *store.Employee, toolCalls []llm.ToolCall) []*InvocationResult {
	results := make([]*InvocationResult, len(toolCalls))

	// Guardrail state is loaded fresh for the turn. Balances and attendance
	// change between turns; a cached view would admit stale requests.
	gctx, gctxErr := o.guardrailContext(ctx, employee)

	var group errgroup.Group
	for i, toolCall := range toolCalls {
		name := toolCall.Function.Name

		var args map[string]any
		if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &args); err != nil {
			results[i] = failureResult(name, ErrInvalidArguments, "arguments are not valid JSON: "+err.Error())
			continue
		}

		spec, ok := o.catalog.Get(name)
		if !ok {
			results[i] = failureResult(name, ErrUnknownOperation, "unknown operation: "+name)
			continue
		}

		if len(spec.Guardrails) > 0 {
			if gctxErr != nil {
				results[i] = failureResult(name, ErrGuardrailNotEvaluated, "guardrail state unavailable: "+gctxErr.Error())
				continue
			}
			decision, err := o.guardrails.Check(spec.Guardrails, args, gctx)
			if err != nil {
				results[i] = failureResult(name, ErrGuardrailNotEvaluated, err.Error())
				continue
			}
			if !decision.Allowed {
				if o.exporter != nil {
					o.exporter.RecordGuardrailDenial(name, decision.Rule)
				}
				results[i] = failureResult(name, ErrGuardrailDenied, decision.Reason)
				continue
			}
		}

		group.Go(func() error {
			opStart := time.Now()
			results[i] = o.executor.Execute(ctx, employee, &InvocationRequest{
				OperationName:       name,
				RawArguments:        args,
				GuardrailsEvaluated: true,
			})
			if o.exporter != nil {
				status := "success"
				if !results[i].Success {
					status = string(results[i].ErrorKind)
				}
				o.exporter.RecordOperationCall(name, time.Since(opStart), status)
			}
			return nil
		})
	}
	_ = group.Wait()

	return results
}

func (o *Orchestrator) guardrailContext(ctx context.Context, employee *store.Employee) (*guardrail.Context, error) {
	balances, err := o.hr.GetLeaveBalance(ctx, employee.ID, 0)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]float64, len(balances))
	for _, row := range balances {
		byType[row.LeaveType.UID] = row.Balance
	}

	gctx := &guardrail.Context{
		Employee: employee,
		Role:     employee.Role,
		Balances: byType,
	}

	today, err := o.hr.TodayAttendance(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if today != nil && today.CheckIn != nil {
		gctx.CheckedIn = true
		gctx.CheckInTime = *today.CheckIn
		gctx.ClockedOut = today.CheckOut != nil
	}
	return gctx, nil
}

// synthesize runs the follow-up completion that turns raw invocation results
// into the narrative reply. The tool message carries every result serialized
// as JSON, echoed against the first requested call.
func (o *Orchestrator) synthesize(ctx context.Context, messages []llm.Message, response *llm.ChatResponse, results []*InvocationResult) string {
	serialized, err := json.Marshal(results)
	if err != nil {
		slog.Error("failed to serialize invocation results", "error", err)
		return fallbackMessage
	}

	followUp := append(messages,
		llm.Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		},
		llm.Message{
			Role:       "tool",
			Content:    string(serialized),
			ToolCallID: response.ToolCalls[0].ID,
		},
	)

	content, stats, err := o.llm.Chat(ctx, followUp)
	o.recordLLMStats(stats)
	if err != nil {
		slog.Error("response synthesis failed", "error", err)
		return fallbackMessage
	}
	return content
}

// persistTurn appends the user and assistant turns to the session, creating
// the session on first use. Invocations travel on the assistant turn.
func (o *Orchestrator) persistTurn(ctx context.Context, userID, sessionUID, message string, result *ChatResult, invocations []*store.TurnInvocation) error {
	session, err := o.store.UpsertChatSession(ctx, &store.UpsertChatSession{
		UID:    sessionUID,
		UserID: userID,
	})
	if err != nil {
		return err
	}
	if _, err := o.store.CreateChatTurn(ctx, &store.CreateChatTurn{
		SessionID: session.ID,
		Role:      store.TurnRoleUser,
		Content:   message,
	}); err != nil {
		return err
	}
	if _, err := o.store.CreateChatTurn(ctx, &store.CreateChatTurn{
		SessionID:   session.ID,
		Role:        store.TurnRoleAssistant,
		Content:     result.Message,
		Invocations: invocations,
	}); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) recordLLMStats(stats *llm.CallStats) {
	if o.exporter == nil || stats == nil {
		return
	}
	o.exporter.RecordLLMTokens("chat", "prompt", stats.PromptTokens)
	o.exporter.RecordLLMTokens("chat", "completion", stats.CompletionTokens)
	o.exporter.RecordLLMLatency("chat", time.Duration(stats.TotalDurationMs)*time.Millisecond)
}

// History returns the turns of one of the user's sessions in append order.
// A session owned by someone else, or no session at all, yields an empty
// history rather than an error.
func (o *Orchestrator) History(ctx context.Context, userID, sessionUID string) ([]*store.ChatTurn, error) {
	session, err := o.store.GetChatSession(ctx, &store.FindChatSession{
		UID:    &sessionUID,
		UserID: &userID,
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return []*store.ChatTurn{}, nil
	}
	return o.store.ListChatTurns(ctx, session.ID)
}

// RecentSessions lists the user's sessions newest first, each with a preview
// of its latest turn.
func (o *Orchestrator) RecentSessions(ctx context.Context, userID string, limit int) ([]*store.ChatSessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	active := true
	sessions, err := o.store.ListChatSessions(ctx, &store.FindChatSession{
		UserID:   &userID,
		IsActive: &active,
		Limit:    &limit,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]*store.ChatSessionSummary, 0, len(sessions))
	for _, session := range sessions {
		turns, err := o.store.ListChatTurns(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		summary := &store.ChatSessionSummary{
			SessionUID: session.UID,
			UpdatedTs:  session.UpdatedTs,
		}
		if len(turns) > 0 {
			summary.LastMessage = turns[len(turns)-1].Content
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
