package nodes

import (
	contractx "github.com/chatcommerce/shopagent/agent/contract"
	statex "github.com/chatcommerce/shopagent/agent/state"
	toolx "github.com/chatcommerce/shopagent/agent/tool"
)

// CommitState records the agent that served this turn and, when the order
// agent actually created an order, marks the handoff retroactively. The
// marker is provenance only; routing already happened. State commits follow
// the routing decision, not the agent-level success flag: only an
// orchestrator error earlier in the pipeline leaves the conversation where
// it was.
func CommitState(state *GraphState, tracker *statex.Tracker) (*GraphState, error) {
	if state.Selected == contractx.AgentOrder && state.Result.Success && orderCreated(state.Result) {
		state.Result.HandoffOccurred = true
		state.Result.HandoffFrom = contractx.AgentProduct
		state.Result.HandoffTo = contractx.AgentOrder
	}

	tracker.Commit(state.Selected)
	state.Routing.ConversationState = string(tracker.Phase())
	return state, nil
}

// orderCreated reports whether the turn carried a successful create_order.
func orderCreated(result contractx.AgentTurnResult) bool {
	for _, call := range result.ToolCalls {
		if call.Name != toolx.ToolCreateOrder {
			continue
		}
		switch payload := call.Result.(type) {
		case toolx.CreateOrderPayload:
			if payload.Success {
				return true
			}
		case map[string]any:
			if ok, _ := payload["success"].(bool); ok {
				return true
			}
		}
	}
	return false
}
