package state

import (
	"testing"

	"github.com/chatcommerce/shopagent/agent/contract"
)

func TestTrackerInitialPhase(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	if tr.Phase() != PhaseProductInquiry {
		t.Fatalf("initial phase = %q, want %q", tr.Phase(), PhaseProductInquiry)
	}
	if _, ok := tr.CurrentAgent(); ok {
		t.Fatal("current agent must be unset before the first turn")
	}
}

func TestTrackerCommitTransitions(t *testing.T) {
	t.Parallel()

	tr := NewTracker()

	tr.Commit(contract.AgentOrder)
	if tr.Phase() != PhaseOrderProcessing {
		t.Fatalf("phase after order commit = %q", tr.Phase())
	}
	agent, ok := tr.CurrentAgent()
	if !ok || agent != contract.AgentOrder {
		t.Fatalf("current agent = %q ok=%v", agent, ok)
	}

	tr.Commit(contract.AgentProduct)
	if tr.Phase() != PhaseProductInquiry {
		t.Fatalf("phase after product commit = %q", tr.Phase())
	}
}

func TestTrackerResetIdempotent(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Commit(contract.AgentOrder)

	for i := 0; i < 3; i++ {
		tr.Reset()
		if tr.Phase() != PhaseProductInquiry {
			t.Fatalf("reset %d: phase = %q", i, tr.Phase())
		}
		if _, ok := tr.CurrentAgent(); ok {
			t.Fatalf("reset %d: current agent still set", i)
		}
	}
}

func TestPhaseFor(t *testing.T) {
	t.Parallel()

	if PhaseFor(contract.AgentOrder) != PhaseOrderProcessing {
		t.Fatal("order agent must map to order_processing")
	}
	if PhaseFor(contract.AgentProduct) != PhaseProductInquiry {
		t.Fatal("product agent must map to product_inquiry")
	}
}
