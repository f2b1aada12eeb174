package nodes

import (
	contractx "github.com/chatcommerce/shopagent/agent/contract"
)

// FinalizeResult wraps the agent result with the routing metadata. Every
// processed turn carries the metadata, failed ones included.
func FinalizeResult(state *GraphState) (GraphOutput, error) {
	return GraphOutput{
		Result: contractx.OrchestratorResult{
			AgentTurnResult: state.Result,
			Routing:         state.Routing,
		},
	}, nil
}
