package nodes

import (
	"context"
	"fmt"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
)

// DispatchAgent hands the message to the selected agent. Agents fold their
// own failures into the result, so the only error here is a wiring gap.
func DispatchAgent(ctx context.Context, state *GraphState, agents map[string]contractx.Agent) (*GraphState, error) {
	agent, ok := agents[state.Selected]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, state.Selected)
	}
	state.Result = agent.Process(ctx, state.Input.Message, state.Input.Transcript)
	return state, nil
}
