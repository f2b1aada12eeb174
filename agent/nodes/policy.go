package nodes

import (
	"regexp"
	"strings"

	orderagent "github.com/chatcommerce/shopagent/agent/agents/order"
	productagent "github.com/chatcommerce/shopagent/agent/agents/product"
	contractx "github.com/chatcommerce/shopagent/agent/contract"
	statex "github.com/chatcommerce/shopagent/agent/state"
)

// orderIDPattern matches explicit order references like
// "ORD-20250601-AB12CD34" or "#ORD-2025...". Case-insensitive.
var orderIDPattern = regexp.MustCompile(`(?i)ord-\d{8}-[a-z0-9]{8}|#ord[\d\-]+`)

// orderVocab marks a message as talking about an existing order. An order ID
// reference only routes when one of these words accompanies it.
var orderVocab = []string{"order", "ord-", "#ord", "status"}

// productContextIndicators mark that concrete products have been discussed
// recently, which is what makes purchase intent actionable.
var productContextIndicators = []string{"price", "$", "product", "available", "stock", "category", "spec"}

const productContextWindow = 5

// Route decides which agent handles the message. The checks run in a fixed
// order; the first hit wins:
//  1. order intent with recent product context goes to the order agent
//  2. a purchase phrase with recent product context goes to the order agent
//  3. an explicit order ID alongside order vocabulary goes to the order agent
//  4. everything else goes to the product agent
//
// The phase is carried into the routing metadata but does not steer the
// decision itself.
func Route(message string, transcript []contractx.DialogueTurn, phase statex.Phase) contractx.RoutingInfo {
	lower := strings.ToLower(message)
	hasContext := HasProductContext(transcript)

	selected := contractx.AgentProduct
	switch {
	case orderagent.DetectOrderIntent(message) && hasContext:
		selected = contractx.AgentOrder
	case productagent.ShouldSuggestHandoff(message, transcript):
		selected = contractx.AgentOrder
	case containsAny(lower, orderVocab) && orderIDPattern.MatchString(message):
		selected = contractx.AgentOrder
	}

	return contractx.RoutingInfo{
		SelectedAgent:     selected,
		ConversationState: string(phase),
		HasProductContext: hasContext,
	}
}

// HasProductContext scans the last few transcript turns for signs that
// concrete products are on the table.
func HasProductContext(transcript []contractx.DialogueTurn) bool {
	start := 0
	if len(transcript) > productContextWindow {
		start = len(transcript) - productContextWindow
	}
	for _, turn := range transcript[start:] {
		content := strings.ToLower(turn.Content)
		if containsAny(content, productContextIndicators) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
