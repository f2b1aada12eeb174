package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
	toolx "github.com/chatcommerce/shopagent/agent/tool"
)

type fakeChatModel struct {
	responses []*schema.Message
	err       error

	calls        int
	boundTools   []*schema.ToolInfo
	lastMessages []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, messages []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.lastMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.responses) {
		return nil, errors.New("fake model exhausted")
	}
	msg := f.responses[f.calls]
	f.calls++
	return msg, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in tests")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.boundTools = tools
	return f, nil
}

type recordedCall struct {
	name string
	args map[string]any
}

func testRegistry(t *testing.T, calls *[]recordedCall) *toolx.Registry {
	t.Helper()
	infos := []*schema.ToolInfo{
		{Name: "lookup"},
		{Name: "fail_hard"},
	}
	handlers := map[string]toolx.Handler{
		"lookup": func(_ context.Context, args map[string]any) (any, error) {
			*calls = append(*calls, recordedCall{name: "lookup", args: args})
			return map[string]any{"success": true, "message": "found it"}, nil
		},
		"fail_hard": func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("backend down")
		},
	}
	reg, err := toolx.NewRegistry(infos, handlers)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func toolCallMessage(calls ...schema.ToolCall) *schema.Message {
	return &schema.Message{Role: schema.Assistant, ToolCalls: calls}
}

func TestRunTurnDirectResponse(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		schema.AssistantMessage("Happy to help with that.", nil),
	}}
	exec, err := New(contractx.AgentProduct, model, testRegistry(t, &recorded), WithModelName("test-model"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "hi there"})
	if !res.Success {
		t.Fatalf("turn failed: %s", res.Error)
	}
	if res.Reply != "Happy to help with that." {
		t.Fatalf("reply = %q", res.Reply)
	}
	if res.Metadata.Type != "direct_response" {
		t.Fatalf("metadata type = %q, want direct_response", res.Metadata.Type)
	}
	if len(res.ToolCalls) != 0 {
		t.Fatalf("unexpected tool calls %+v", res.ToolCalls)
	}
	if len(model.boundTools) != 2 {
		t.Fatalf("bound %d tools, want 2", len(model.boundTools))
	}
}

func TestRunTurnExecutesToolsThenReprompts(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		toolCallMessage(schema.ToolCall{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: "lookup", Arguments: `{"query":"laptop"}`},
		}),
		schema.AssistantMessage("I found a laptop for you.", nil),
	}}
	exec, err := New(contractx.AgentProduct, model, testRegistry(t, &recorded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "find me a laptop"})
	if !res.Success {
		t.Fatalf("turn failed: %s", res.Error)
	}
	if res.Reply != "I found a laptop for you." {
		t.Fatalf("reply = %q", res.Reply)
	}
	if res.Metadata.Type != "function_calling" {
		t.Fatalf("metadata type = %q, want function_calling", res.Metadata.Type)
	}
	if len(res.ToolCalls) != 1 || res.ToolCalls[0].Name != "lookup" {
		t.Fatalf("tool calls = %+v", res.ToolCalls)
	}
	if len(recorded) != 1 || recorded[0].args["query"] != "laptop" {
		t.Fatalf("handler saw %+v", recorded)
	}
	if got := res.Metadata.FunctionsUsed; len(got) != 1 || got[0] != "lookup" {
		t.Fatalf("functions_used = %v", got)
	}

	// The second generate must see the tool result appended as a tool message.
	last := model.lastMessages[len(model.lastMessages)-1]
	if last.Role != schema.Tool {
		t.Fatalf("last message role = %s, want tool", last.Role)
	}
	if !strings.Contains(last.Content, "found it") {
		t.Fatalf("tool message content = %q", last.Content)
	}
}

func TestRunTurnUnknownToolIsNonFatal(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		toolCallMessage(schema.ToolCall{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: "teleport", Arguments: `{}`},
		}),
		schema.AssistantMessage("I cannot do that, sorry.", nil),
	}}
	exec, err := New(contractx.AgentProduct, model, testRegistry(t, &recorded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "teleport me"})
	if !res.Success {
		t.Fatalf("unknown tool should not fail the turn: %s", res.Error)
	}
	if len(res.ToolCalls) != 1 {
		t.Fatalf("tool calls = %+v", res.ToolCalls)
	}
	payload, ok := res.ToolCalls[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("payload type %T", res.ToolCalls[0].Result)
	}
	if payload["success"] != false || payload["error"] != "Unknown function: teleport" {
		t.Fatalf("synthetic payload = %+v", payload)
	}
}

func TestRunTurnModelErrorBecomesFailureResult(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{err: errors.New("rate limited")}
	exec, err := New(contractx.AgentOrder, model, testRegistry(t, &recorded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "order one"})
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.AgentID != contractx.AgentOrder {
		t.Fatalf("agent = %q", res.AgentID)
	}
	if !strings.Contains(res.Error, "rate limited") {
		t.Fatalf("error = %q", res.Error)
	}
	if !strings.Contains(res.Reply, "I apologize") {
		t.Fatalf("reply should apologize, got %q", res.Reply)
	}
}

func TestRunTurnHandlerErrorPreservesPartialResults(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		toolCallMessage(
			schema.ToolCall{ID: "call-1", Function: schema.FunctionCall{Name: "lookup", Arguments: `{"query":"ok"}`}},
			schema.ToolCall{ID: "call-2", Function: schema.FunctionCall{Name: "fail_hard", Arguments: `{}`}},
		),
	}}
	exec, err := New(contractx.AgentOrder, model, testRegistry(t, &recorded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "do both"})
	if res.Success {
		t.Fatal("expected failure result")
	}
	if len(res.ToolCalls) != 1 || res.ToolCalls[0].Name != "lookup" {
		t.Fatalf("partial results = %+v", res.ToolCalls)
	}
	if !strings.Contains(res.Error, "backend down") {
		t.Fatalf("error = %q", res.Error)
	}
}

func TestRunTurnMalformedArgumentsFailTheTurn(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		toolCallMessage(schema.ToolCall{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: "lookup", Arguments: `{"query":`},
		}),
	}}
	exec, err := New(contractx.AgentProduct, model, testRegistry(t, &recorded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "find it"})
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, "lookup") {
		t.Fatalf("error should name the tool, got %q", res.Error)
	}
	if len(recorded) != 0 {
		t.Fatalf("handler should not run on malformed args, saw %+v", recorded)
	}
}

func TestRunTurnAppliesArgsHook(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		toolCallMessage(schema.ToolCall{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: "lookup", Arguments: `{}`},
		}),
		schema.AssistantMessage("done", nil),
	}}
	hook := func(name string, args map[string]any) map[string]any {
		if name == "lookup" {
			args["query"] = "backfilled"
		}
		return args
	}
	exec, err := New(contractx.AgentOrder, model, testRegistry(t, &recorded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "be helpful", UserMessage: "look it up", ArgsHook: hook})
	if !res.Success {
		t.Fatalf("turn failed: %s", res.Error)
	}
	if len(recorded) != 1 || recorded[0].args["query"] != "backfilled" {
		t.Fatalf("hook not applied, handler saw %+v", recorded)
	}
}

func TestRunTurnTrimsHistoryWindow(t *testing.T) {
	t.Parallel()

	var recorded []recordedCall
	model := &fakeChatModel{responses: []*schema.Message{
		schema.AssistantMessage("ok", nil),
	}}
	exec, err := New(contractx.AgentProduct, model, testRegistry(t, &recorded), WithHistoryWindow(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	transcript := []contractx.DialogueTurn{
		{Role: contractx.RoleUser, Content: "one"},
		{Role: contractx.RoleAssistant, Content: "two"},
		{Role: contractx.RoleUser, Content: "three"},
		{Role: contractx.RoleAssistant, Content: "four"},
	}
	if res := exec.RunTurn(context.Background(), Turn{SystemPrompt: "sys", UserMessage: "now", Transcript: transcript}); !res.Success {
		t.Fatalf("turn failed: %s", res.Error)
	}

	// system + 2 history turns + current user message
	if got := len(model.lastMessages); got != 4 {
		t.Fatalf("model saw %d messages, want 4", got)
	}
	if model.lastMessages[1].Content != "three" {
		t.Fatalf("history window wrong, first kept turn = %q", model.lastMessages[1].Content)
	}
}
