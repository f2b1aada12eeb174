// Package state holds the per-conversation routing state machine.
//
// One Tracker exists per active conversation, owned exclusively by its
// orchestrator. It is single-writer: the design assumes one in-flight
// process call per conversation, so no locking is needed here.
package state

import "github.com/chatcommerce/shopagent/agent/contract"

type Phase string

const (
	PhaseProductInquiry  Phase = "product_inquiry"
	PhaseOrderProcessing Phase = "order_processing"
)

// Tracker is the conversation state machine: a phase plus a nullable
// current-agent pointer. Both are committed atomically at the end of a
// successfully routed turn, never mid-turn.
type Tracker struct {
	phase        Phase
	currentAgent string
}

func NewTracker() *Tracker {
	return &Tracker{phase: PhaseProductInquiry}
}

func (t *Tracker) Phase() Phase {
	if t == nil {
		return PhaseProductInquiry
	}
	return t.phase
}

// CurrentAgent returns the agent that handled the last committed turn.
// The second return is false before the first turn and after a reset.
func (t *Tracker) CurrentAgent() (string, bool) {
	if t == nil || t.currentAgent == "" {
		return "", false
	}
	return t.currentAgent, true
}

// Commit records the routed agent and derives the phase from it.
func (t *Tracker) Commit(agentID string) {
	if t == nil {
		return
	}
	if agentID == contract.AgentOrder {
		t.phase = PhaseOrderProcessing
	} else {
		t.phase = PhaseProductInquiry
	}
	t.currentAgent = agentID
}

// PhaseFor reports the phase a routing decision would commit, without
// mutating the tracker. The orchestrator uses it to stage the transition
// before the agent turn completes.
func PhaseFor(agentID string) Phase {
	if agentID == contract.AgentOrder {
		return PhaseOrderProcessing
	}
	return PhaseProductInquiry
}

// Reset clears the current-agent pointer and returns to the initial phase.
// Idempotent: repeated resets are no-ops.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	t.phase = PhaseProductInquiry
	t.currentAgent = ""
}
