package contract

import "context"

// Agent completes one conversational turn. Turn-level failures are reported
// inside the result, never as a returned error.
type Agent interface {
	ID() string
	Process(ctx context.Context, message string, transcript []DialogueTurn) AgentTurnResult
}
