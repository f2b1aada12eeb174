package orchestrator

import (
	"regexp"
	"strings"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
)

var (
	summaryProductPattern = regexp.MustCompile(`Product:\s*([^,\n]+)`)
	summaryOrderPattern   = regexp.MustCompile(`Order ID:\s*#?([\w\-]+)`)
)

// Summary mines a transcript for a best-effort conversation overview:
// products the assistant named, orders it confirmed, and how often the
// serving agent changed. Text mining only; it never consults the store.
func (o *Orchestrator) Summary(transcript []contractx.DialogueTurn) contractx.ConversationSummary {
	summary := contractx.ConversationSummary{
		TotalTurns:        len(transcript),
		ConversationState: string(o.tracker.Phase()),
		ProductsMentioned: []string{},
		OrdersCreated:     []string{},
	}
	if agent, ok := o.tracker.CurrentAgent(); ok {
		summary.CurrentAgent = agent
	}

	seenProducts := map[string]struct{}{}
	seenOrders := map[string]struct{}{}
	lastAgent := ""

	for _, turn := range transcript {
		// The first agent seen counts as a switch too.
		if turn.AgentID != "" && turn.AgentID != lastAgent {
			summary.AgentSwitches++
			lastAgent = turn.AgentID
		}

		if turn.Role != contractx.RoleAssistant {
			continue
		}

		for _, match := range summaryProductPattern.FindAllStringSubmatch(turn.Content, -1) {
			name := strings.TrimSpace(match[1])
			if name == "" {
				continue
			}
			if _, dup := seenProducts[name]; dup {
				continue
			}
			seenProducts[name] = struct{}{}
			summary.ProductsMentioned = append(summary.ProductsMentioned, name)
		}

		for _, match := range summaryOrderPattern.FindAllStringSubmatch(turn.Content, -1) {
			id := strings.TrimSpace(match[1])
			if id == "" {
				continue
			}
			if _, dup := seenOrders[id]; dup {
				continue
			}
			seenOrders[id] = struct{}{}
			summary.OrdersCreated = append(summary.OrdersCreated, id)
		}
	}

	return summary
}
