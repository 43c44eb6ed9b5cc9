package assistant

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/lumenhr/lumen/assistant/llm"
	"github.com/lumenhr/lumen/assistant/metrics"
	"github.com/lumenhr/lumen/store"
)

// fakeLLM scripts both completion passes. followUp captures the messages of
// the synthesis call for assertions on what the model was shown.
type fakeLLM struct {
	toolResponse *llm.ChatResponse
	toolErr      error
	chatContent  string
	chatErr      error

	followUp []llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	f.followUp = messages
	return f.chatContent, &llm.CallStats{}, f.chatErr
}

func (f *fakeLLM) ChatWithTools(context.Context, []llm.Message, []llm.ToolDescriptor) (*llm.ChatResponse, *llm.CallStats, error) {
	if f.toolErr != nil {
		return nil, nil, f.toolErr
	}
	return f.toolResponse, &llm.CallStats{}, nil
}

func (f *fakeLLM) Warmup(context.Context) {}

func toolCall(id, name string, args map[string]any) llm.ToolCall {
	raw, _ := json.Marshal(args)
	return llm.ToolCall{
		ID:       id,
		Type:     "function",
		Function: llm.FunctionCall{Name: name, Arguments: string(raw)},
	}
}

func newTestOrchestrator(t *testing.T, fake *fakeLLM) (*testEnv, *Orchestrator) {
	t.Helper()
	env := newTestEnv(t)

	var svc llm.Service
	if fake != nil {
		svc = fake
	}
	orchestrator, err := NewOrchestrator(svc, env.store, env.hr, nil)
	require.NoError(t, err)
	return env, orchestrator
}

func TestChatNoProfile(t *testing.T) {
	_, orchestrator := newTestOrchestrator(t, &fakeLLM{})

	result, err := orchestrator.Chat(context.Background(), "ghost-user", "session-1", "hello")
	require.NoError(t, err)
	require.Equal(t, noProfileMessage, result.Message)
	require.Empty(t, result.FunctionCalls)

	// Nothing is persisted for an unknown user.
	turns, err := orchestrator.History(context.Background(), "ghost-user", "session-1")
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestChatTextOnly(t *testing.T) {
	fake := &fakeLLM{toolResponse: &llm.ChatResponse{Content: "Your casual leave entitlement is 12 days per year."}}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "how much casual leave do I get?")
	require.NoError(t, err)
	require.Equal(t, "Your casual leave entitlement is 12 days per year.", result.Message)
	require.Empty(t, result.FunctionCalls)

	turns, err := orchestrator.History(context.Background(), "demo-user", "session-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, store.TurnRoleUser, turns[0].Role)
	require.Equal(t, store.TurnRoleAssistant, turns[1].Role)
}

func TestChatEmptyContentFallsBackToHelp(t *testing.T) {
	fake := &fakeLLM{toolResponse: &llm.ChatResponse{}}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "/help")
	require.NoError(t, err)
	require.Equal(t, defaultHelpMessage, result.Message)
}

func TestChatReadOnlyOperation(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "getLeaveBalance", map[string]any{})},
		},
		chatContent: "You have 12 casual, 10 sick and 21 annual days left.",
	}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "what's my leave balance?")
	require.NoError(t, err)
	require.Equal(t, "You have 12 casual, 10 sick and 21 annual days left.", result.Message)
	require.Len(t, result.FunctionCalls, 1)
	require.Equal(t, "getLeaveBalance", result.FunctionCalls[0].Name)

	invocation, ok := result.FunctionCalls[0].Result.(*InvocationResult)
	require.True(t, ok)
	require.True(t, invocation.Success)

	// The synthesis pass saw the tool result echoed against the call id.
	require.NotEmpty(t, fake.followUp)
	last := fake.followUp[len(fake.followUp)-1]
	require.Equal(t, "tool", last.Role)
	require.Equal(t, "call_1", last.ToolCallID)
	require.Contains(t, last.Content, "getLeaveBalance")
}

func TestChatReadOnlyIsIdempotent(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "getLeaveBalance", map[string]any{})},
		},
		chatContent: "Here is your balance.",
	}
	env, orchestrator := newTestOrchestrator(t, fake)

	for i := 0; i < 3; i++ {
		_, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "balance?")
		require.NoError(t, err)
	}

	// History only grows; repeated reads change nothing else.
	turns, err := orchestrator.History(context.Background(), "demo-user", "session-1")
	require.NoError(t, err)
	require.Len(t, turns, 6)
	require.Zero(t, env.leaveRequestCount(t))
}

func TestChatMutatingOperationAllowed(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "applyLeave", map[string]any{
				"leaveTypeId": "casual",
				"startDate":   "2025-07-01",
				"endDate":     "2025-07-02",
				"reason":      "family event",
			})},
		},
		chatContent: "Done! Your casual leave request for 2 days is pending approval.",
	}
	env, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "apply 2 days casual leave from july 1")
	require.NoError(t, err)
	require.Len(t, result.FunctionCalls, 1)

	invocation := result.FunctionCalls[0].Result.(*InvocationResult)
	require.True(t, invocation.Success)
	require.Equal(t, 1, env.leaveRequestCount(t))

	// The assistant turn carries the audit trail.
	turns, err := orchestrator.History(context.Background(), "demo-user", "session-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Len(t, turns[1].Invocations, 1)
	require.Equal(t, "applyLeave", turns[1].Invocations[0].Name)
	require.Equal(t, "success", turns[1].Invocations[0].OutcomeSummary)
}

func TestChatGuardrailDeniesInsufficientBalance(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "applyLeave", map[string]any{
				"leaveTypeId": "casual",
				"startDate":   "2025-07-01",
				"endDate":     "2025-09-01",
				"reason":      "long trip",
			})},
		},
		chatContent: "That request exceeds your casual leave balance.",
	}
	env, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "apply two months of casual leave")
	require.NoError(t, err)

	invocation := result.FunctionCalls[0].Result.(*InvocationResult)
	require.False(t, invocation.Success)
	require.Equal(t, ErrGuardrailDenied, invocation.ErrorKind)
	require.Contains(t, invocation.Message, "insufficient casual leave balance")
	require.Zero(t, env.leaveRequestCount(t))

	// The denial reason reaches the synthesis pass so the reply can suggest
	// alternatives.
	last := fake.followUp[len(fake.followUp)-1]
	require.Contains(t, last.Content, "GuardrailDenied")
}

func TestChatGuardrailDeniesNonManagerApproval(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "approveRequest", map[string]any{
				"requestType": "leave",
				"requestId":   "some-request",
				"decision":    "approve",
			})},
		},
		chatContent: "Only managers can approve requests.",
	}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "approve that leave request")
	require.NoError(t, err)

	invocation := result.FunctionCalls[0].Result.(*InvocationResult)
	require.False(t, invocation.Success)
	require.Equal(t, ErrGuardrailDenied, invocation.ErrorKind)
	require.Equal(t, "approvals require the manager role", invocation.Message)
}

func TestChatInvalidToolArgumentsJSON(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: llm.FunctionCall{Name: "applyLeave", Arguments: "{not json"},
			}},
		},
		chatContent: "I couldn't process that request.",
	}
	env, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "apply leave")
	require.NoError(t, err)

	invocation := result.FunctionCalls[0].Result.(*InvocationResult)
	require.False(t, invocation.Success)
	require.Equal(t, ErrInvalidArguments, invocation.ErrorKind)
	require.Zero(t, env.leaveRequestCount(t))
}

func TestChatMultipleCallsPreserveOrder(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{
				toolCall("call_1", "getLeaveTypes", map[string]any{}),
				toolCall("call_2", "getLeaveBalance", map[string]any{}),
				toolCall("call_3", "getPayslips", map[string]any{}),
			},
		},
		chatContent: "Here is everything you asked for.",
	}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "show me types, balance and payslips")
	require.NoError(t, err)
	require.Len(t, result.FunctionCalls, 3)
	require.Equal(t, "getLeaveTypes", result.FunctionCalls[0].Name)
	require.Equal(t, "getLeaveBalance", result.FunctionCalls[1].Name)
	require.Equal(t, "getPayslips", result.FunctionCalls[2].Name)
	for _, call := range result.FunctionCalls {
		require.True(t, call.Result.(*InvocationResult).Success)
	}
}

func TestChatIntentResolutionFailure(t *testing.T) {
	fake := &fakeLLM{toolErr: errors.New("upstream timeout")}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "hello")
	require.NoError(t, err)
	require.Equal(t, fallbackMessage, result.Message)

	// The turn is still recorded.
	turns, err := orchestrator.History(context.Background(), "demo-user", "session-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, fallbackMessage, turns[1].Content)
}

func TestChatSynthesisFailureFallsBack(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "getLeaveBalance", map[string]any{})},
		},
		chatErr: errors.New("upstream timeout"),
	}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "balance?")
	require.NoError(t, err)
	require.Equal(t, fallbackMessage, result.Message)
	// The operation itself still ran.
	require.True(t, result.FunctionCalls[0].Result.(*InvocationResult).Success)
}

func TestChatWithoutModelConfigured(t *testing.T) {
	_, orchestrator := newTestOrchestrator(t, nil)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "hello")
	require.NoError(t, err)
	require.Equal(t, fallbackMessage, result.Message)
}

func TestChatSessionUIDIsScopedPerUser(t *testing.T) {
	fake := &fakeLLM{toolResponse: &llm.ChatResponse{Content: "hi"}}
	_, orchestrator := newTestOrchestrator(t, fake)

	_, err := orchestrator.Chat(context.Background(), "demo-user", "shared-session", "my own message")
	require.NoError(t, err)

	// A second user reusing the same session id writes into their own
	// session, never into the first user's transcript.
	_, err = orchestrator.Chat(context.Background(), "demo-user-2", "shared-session", "someone else's message")
	require.NoError(t, err)

	turns, err := orchestrator.History(context.Background(), "demo-user", "shared-session")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, "my own message", turns[0].Content)

	turns, err = orchestrator.History(context.Background(), "demo-user-2", "shared-session")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, "someone else's message", turns[0].Content)
}

func TestHistoryIsScopedToOwner(t *testing.T) {
	fake := &fakeLLM{toolResponse: &llm.ChatResponse{Content: "hi"}}
	_, orchestrator := newTestOrchestrator(t, fake)

	_, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "hello")
	require.NoError(t, err)

	turns, err := orchestrator.History(context.Background(), "demo-user-2", "session-1")
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestChatResultMarshalsEmptyFunctionCalls(t *testing.T) {
	fake := &fakeLLM{toolErr: errors.New("upstream timeout")}
	_, orchestrator := newTestOrchestrator(t, fake)

	result, err := orchestrator.Chat(context.Background(), "demo-user", "session-1", "hello")
	require.NoError(t, err)

	// Clients rely on functionCalls being an array even when no operation
	// ran; it must never serialize as null or disappear.
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"functionCalls":[]`)
}

func TestChatRequestModeLabel(t *testing.T) {
	fake := &fakeLLM{
		toolResponse: &llm.ChatResponse{Content: "hi"},
		chatContent:  "done",
	}
	env := newTestEnv(t)
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	orchestrator, err := NewOrchestrator(fake, env.store, env.hr, exporter)
	require.NoError(t, err)

	_, err = orchestrator.Chat(context.Background(), "demo-user", "session-1", "hello")
	require.NoError(t, err)

	fake.toolResponse = &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{toolCall("call_1", "getLeaveBalance", map[string]any{})},
	}
	_, err = orchestrator.Chat(context.Background(), "demo-user", "session-1", "balance?")
	require.NoError(t, err)

	families, err := exporter.GetRegistry().Gather()
	require.NoError(t, err)

	modes := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "lumen_assistant_chat_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "mode" {
					modes[label.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}
	require.Equal(t, map[string]float64{"text": 1, "tool_call": 1}, modes)
}

func TestRecentSessions(t *testing.T) {
	fake := &fakeLLM{toolResponse: &llm.ChatResponse{Content: "hi there"}}
	_, orchestrator := newTestOrchestrator(t, fake)

	_, err := orchestrator.Chat(context.Background(), "demo-user", "session-a", "first thread")
	require.NoError(t, err)
	_, err = orchestrator.Chat(context.Background(), "demo-user", "session-b", "second thread")
	require.NoError(t, err)

	summaries, err := orchestrator.RecentSessions(context.Background(), "demo-user", 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, summary := range summaries {
		require.Equal(t, "hi there", summary.LastMessage)
	}
}
