// Package order implements the order processing specialist: placing,
// checking, validating and cancelling orders, with conversation context
// mined from the transcript backfilled into sparse tool calls.
package order

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
	executorx "github.com/chatcommerce/shopagent/agent/executor"
	extractx "github.com/chatcommerce/shopagent/agent/extract"
	toolx "github.com/chatcommerce/shopagent/agent/tool"
)

// Keyword vocabulary for order intent. Substring match on the lowercased
// message, same as the routing layer uses.
var orderKeywords = []string{
	"buy",
	"purchase",
	"order",
	"confirm",
	"take it",
	"add to cart",
	"checkout",
	"place order",
	"i want",
	"get me",
	"i'll take",
	"yes please",
	"proceed",
	"continue",
}

// HistoryWindow is how many trailing transcript turns accompany an order
// turn to the model.
const HistoryWindow = 8

type Agent struct {
	exec       *executorx.Executor
	basePrompt string
}

var _ contractx.Agent = (*Agent)(nil)

func New(exec *executorx.Executor, basePrompt string) *Agent {
	return &Agent{exec: exec, basePrompt: basePrompt}
}

func (a *Agent) ID() string {
	return contractx.AgentOrder
}

// Process runs one order turn. The transcript tail is mined for order
// context before the model sees the message: the context is rendered into
// the system prompt and backfilled into create_order arguments the model
// left sparse.
func (a *Agent) Process(ctx context.Context, message string, transcript []contractx.DialogueTurn) contractx.AgentTurnResult {
	mined := extractx.Extract(append(transcript, contractx.DialogueTurn{
		Role:    contractx.RoleUser,
		Content: message,
	}))

	return a.exec.RunTurn(ctx, executorx.Turn{
		SystemPrompt: renderPrompt(a.basePrompt, mined),
		UserMessage:  message,
		Transcript:   transcript,
		ArgsHook:     backfillHook(mined),
	})
}

// DetectOrderIntent reports whether a message looks like order business.
// It is a coarse keyword screen; the orchestrator combines it with state
// and context checks before routing.
func DetectOrderIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range orderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// renderPrompt appends the mined conversation context to the base system
// prompt so the model can resolve references like "order it".
func renderPrompt(base string, mined extractx.Context) string {
	var lines []string
	if mined.ProductName != "" {
		lines = append(lines, fmt.Sprintf("Product mentioned: %s", mined.ProductName))
	}
	if mined.Quantity > 0 {
		lines = append(lines, fmt.Sprintf("Quantity mentioned: %d", mined.Quantity))
	}
	if mined.HasPrice {
		lines = append(lines, fmt.Sprintf("Price mentioned: $%.2f", mined.Price))
	}
	if len(lines) == 0 {
		return base
	}
	return base + "\n\nCurrent conversation context:\n" + strings.Join(lines, "\n")
}

// backfillHook fills create_order arguments the model omitted from the
// mined context. Arguments the model did provide are never overridden.
func backfillHook(mined extractx.Context) executorx.ArgsHook {
	return func(name string, args map[string]any) map[string]any {
		if name != toolx.ToolCreateOrder {
			return args
		}
		if args == nil {
			args = map[string]any{}
		}
		if _, ok := args["product_name"]; !ok && mined.ProductName != "" {
			args["product_name"] = mined.ProductName
		}
		if _, ok := args["quantity"]; !ok && mined.Quantity > 0 {
			args["quantity"] = mined.Quantity
		}
		if _, ok := args["customer_info"]; !ok {
			if info := mined.CustomerInfo(); info != nil {
				args["customer_info"] = info
			}
		}
		return args
	}
}
