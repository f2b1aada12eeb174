// Package executor runs a single model turn with function calling: offer the
// agent's tools, execute whatever the model requested, then re-prompt without
// tools so the model can phrase the final reply over the tool output.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
	toolx "github.com/chatcommerce/shopagent/agent/tool"
)

const defaultHistoryWindow = 10

// ArgsHook lets an agent backfill or adjust tool arguments before execution,
// e.g. injecting conversation context into a sparse create_order call. It
// must return the arguments to use; returning the input unchanged is fine.
type ArgsHook func(name string, args map[string]any) map[string]any

type Executor struct {
	agentID       string
	modelName     string
	base          einomodel.ToolCallingChatModel
	tooled        einomodel.ToolCallingChatModel
	registry      *toolx.Registry
	historyWindow int
	errorReply    func(error) string
	log           zerolog.Logger
}

// Turn is the input of one agent turn. ArgsHook is optional and applies to
// this turn only.
type Turn struct {
	SystemPrompt string
	UserMessage  string
	Transcript   []contractx.DialogueTurn
	ArgsHook     ArgsHook
}

type Option func(*Executor)

func WithHistoryWindow(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.historyWindow = n
		}
	}
}

func WithModelName(name string) Option {
	return func(e *Executor) {
		e.modelName = name
	}
}

func WithErrorReply(f func(error) string) Option {
	return func(e *Executor) {
		if f != nil {
			e.errorReply = f
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Executor) {
		e.log = log
	}
}

// New binds the registry's tool schemas to the model. The unbound model is
// kept for the second phase, which must not offer tools again.
func New(agentID string, model einomodel.ToolCallingChatModel, registry *toolx.Registry, opts ...Option) (*Executor, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: executor requires a chat model", contractx.ErrValidation)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: executor requires a tool registry", contractx.ErrValidation)
	}

	tooled, err := model.WithTools(registry.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentID, err)
	}

	e := &Executor{
		agentID:       agentID,
		base:          model,
		tooled:        tooled,
		registry:      registry,
		historyWindow: defaultHistoryWindow,
		errorReply: func(err error) string {
			return fmt.Sprintf("I apologize, but I encountered an error while processing your request: %v", err)
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// RunTurn executes one user turn. All failures come back inside the result
// with Success=false and an apologetic reply; the error return path is not
// used so callers can always hand the result to the customer.
func (e *Executor) RunTurn(ctx context.Context, turn Turn) contractx.AgentTurnResult {
	messages := e.buildMessages(turn.SystemPrompt, turn.UserMessage, turn.Transcript)

	first, err := e.tooled.Generate(ctx, messages)
	if err != nil {
		return e.failure(fmt.Errorf("%w: model generate: %v", contractx.ErrModelInvoke, err), nil)
	}

	if len(first.ToolCalls) == 0 {
		return contractx.AgentTurnResult{
			Success: true,
			AgentID: e.agentID,
			Reply:   strings.TrimSpace(first.Content),
			Metadata: contractx.TurnMetadata{
				Model: e.modelName,
				Type:  "direct_response",
			},
		}
	}

	messages = append(messages, first)

	var (
		executed []contractx.ToolCallResult
		used     []string
	)
	for _, call := range first.ToolCalls {
		name := call.Function.Name

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return e.failure(fmt.Errorf("%w: arguments for %s: %v", contractx.ErrToolArgs, name, err), executed)
			}
		}
		if turn.ArgsHook != nil {
			args = turn.ArgsHook(name, args)
		}

		payload, err := e.execute(ctx, name, args)
		if err != nil {
			return e.failure(err, executed)
		}

		executed = append(executed, contractx.ToolCallResult{
			Name:   name,
			Args:   args,
			Result: payload,
		})
		used = append(used, name)

		encoded, err := json.Marshal(payload)
		if err != nil {
			return e.failure(fmt.Errorf("%w: encode result of %s: %v", contractx.ErrToolArgs, name, err), executed)
		}
		messages = append(messages, schema.ToolMessage(string(encoded), call.ID))
	}

	second, err := e.base.Generate(ctx, messages)
	if err != nil {
		return e.failure(fmt.Errorf("%w: model generate after tools: %v", contractx.ErrModelInvoke, err), executed)
	}

	return contractx.AgentTurnResult{
		Success:   true,
		AgentID:   e.agentID,
		Reply:     strings.TrimSpace(second.Content),
		ToolCalls: executed,
		Metadata: contractx.TurnMetadata{
			Model:         e.modelName,
			Type:          "function_calling",
			FunctionsUsed: used,
		},
	}
}

// execute runs one tool call. A name the registry does not know yields a
// synthetic failure payload rather than an error, so the model can see and
// explain the miss in its final reply.
func (e *Executor) execute(ctx context.Context, name string, args map[string]any) (any, error) {
	handler, ok := e.registry.Handler(name)
	if !ok {
		e.log.Warn().Str("agent", e.agentID).Str("tool", name).Msg("model requested unknown tool")
		return map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Unknown function: %s", name),
		}, nil
	}

	e.log.Debug().Str("agent", e.agentID).Str("tool", name).Msg("executing tool")
	payload, err := handler(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%w: tool %s: %v", contractx.ErrModelInvoke, name, err)
	}
	return payload, nil
}

func (e *Executor) buildMessages(systemPrompt, userMessage string, transcript []contractx.DialogueTurn) []*schema.Message {
	history := transcript
	if len(history) > e.historyWindow {
		history = history[len(history)-e.historyWindow:]
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, turn := range history {
		switch turn.Role {
		case contractx.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Content))
		case contractx.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	messages = append(messages, schema.UserMessage(userMessage))
	return messages
}

func (e *Executor) failure(err error, executed []contractx.ToolCallResult) contractx.AgentTurnResult {
	e.log.Error().Err(err).Str("agent", e.agentID).Msg("agent turn failed")
	return contractx.AgentTurnResult{
		Success:   false,
		AgentID:   e.agentID,
		Reply:     e.errorReply(err),
		ToolCalls: executed,
		Error:     err.Error(),
		Metadata: contractx.TurnMetadata{
			Model: e.modelName,
			Type:  "error",
		},
	}
}
