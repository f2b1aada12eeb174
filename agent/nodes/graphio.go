// Package nodes holds the steps of the orchestrator pipeline. Each node is a
// pure-ish function over GraphState so the graph wiring stays in one place
// and the steps stay testable on their own.
package nodes

import (
	"errors"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrUnknownAgent = errors.New("no agent registered for route")
)

// GraphInput is one customer turn plus the caller-owned transcript.
type GraphInput struct {
	Message    string
	Transcript []contractx.DialogueTurn
}

// GraphState threads the turn through the pipeline.
type GraphState struct {
	Input GraphInput

	Selected string
	Routing  contractx.RoutingInfo

	Result contractx.AgentTurnResult
}

// GraphOutput is the terminal value of a pipeline run.
type GraphOutput struct {
	Result contractx.OrchestratorResult
}
