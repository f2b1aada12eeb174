package nodes

import (
	statex "github.com/chatcommerce/shopagent/agent/state"
)

// RouteMessage attaches the routing decision for this turn to the state.
func RouteMessage(state *GraphState, tracker *statex.Tracker) (*GraphState, error) {
	state.Routing = Route(state.Input.Message, state.Input.Transcript, tracker.Phase())
	state.Selected = state.Routing.SelectedAgent
	return state, nil
}
