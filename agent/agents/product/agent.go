// Package product implements the product inquiry specialist: catalog search,
// details, availability and category browsing over the function-calling loop.
package product

import (
	"context"
	"strings"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
	executorx "github.com/chatcommerce/shopagent/agent/executor"
)

// Purchase phrases that flip the handoff suggestion when product context is
// already on the table.
var purchasePhrases = []string{
	"i'll take it",
	"i'll buy",
	"i want to buy",
	"purchase",
	"order",
	"add to cart",
	"checkout",
	"place order",
	"confirm",
	"yes please",
	"i want",
	"get me",
	"buy now",
	"i need",
}

var productContextIndicators = []string{
	"price",
	"product",
	"$",
	"available",
}

const contextWindow = 5

type Agent struct {
	exec         *executorx.Executor
	systemPrompt string
}

var _ contractx.Agent = (*Agent)(nil)

func New(exec *executorx.Executor, systemPrompt string) *Agent {
	return &Agent{exec: exec, systemPrompt: systemPrompt}
}

func (a *Agent) ID() string {
	return contractx.AgentProduct
}

// Process answers one product inquiry turn. On success it may additionally
// mark an advisory handoff suggestion toward the order agent; the suggestion
// never affects the current turn.
func (a *Agent) Process(ctx context.Context, message string, transcript []contractx.DialogueTurn) contractx.AgentTurnResult {
	res := a.exec.RunTurn(ctx, executorx.Turn{
		SystemPrompt: a.systemPrompt,
		UserMessage:  message,
		Transcript:   transcript,
	})

	if res.Success && ShouldSuggestHandoff(message, transcript) {
		res.HandoffSuggested = true
		res.SuggestedHandoffTo = contractx.AgentOrder
	}
	return res
}

// ShouldSuggestHandoff reports whether the customer voiced purchase intent
// while product context is visible in the recent transcript. Both conditions
// must hold; intent without a discussed product is not actionable.
func ShouldSuggestHandoff(message string, transcript []contractx.DialogueTurn) bool {
	lower := strings.ToLower(message)

	intent := false
	for _, phrase := range purchasePhrases {
		if strings.Contains(lower, phrase) {
			intent = true
			break
		}
	}
	if !intent {
		return false
	}

	start := 0
	if len(transcript) > contextWindow {
		start = len(transcript) - contextWindow
	}
	for _, turn := range transcript[start:] {
		content := strings.ToLower(turn.Content)
		for _, indicator := range productContextIndicators {
			if strings.Contains(content, indicator) {
				return true
			}
		}
	}
	return false
}
