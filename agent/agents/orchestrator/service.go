// Package orchestrator routes customer messages to the specialized agents
// and owns the conversation state machine.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/chatcommerce/shopagent/agent/contract"
	nodex "github.com/chatcommerce/shopagent/agent/nodes"
	statex "github.com/chatcommerce/shopagent/agent/state"
)

var (
	ErrEmptyMessage = nodex.ErrEmptyMessage
	ErrUnknownAgent = nodex.ErrUnknownAgent
)

type Orchestrator struct {
	agents  map[string]contractx.Agent
	tracker *statex.Tracker

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	log zerolog.Logger
}

type Option func(*Orchestrator)

func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

func New(productAgent, orderAgent contractx.Agent, opts ...Option) (*Orchestrator, error) {
	if productAgent == nil || orderAgent == nil {
		return nil, errors.New("orchestrator requires both specialized agents")
	}

	o := &Orchestrator{
		agents: map[string]contractx.Agent{
			productAgent.ID(): productAgent,
			orderAgent.ID():   orderAgent,
		},
		tracker: statex.NewTracker(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if _, ok := o.agents[contractx.AgentProduct]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, contractx.AgentProduct)
	}
	if _, ok := o.agents[contractx.AgentOrder]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, contractx.AgentOrder)
	}

	graphRunner, err := o.compileProcessGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Process routes one customer message and returns the annotated agent
// result. Failures, routing-level ones included, come back as result values
// with routing metadata attached; the conversation state is only committed
// when the agent turn succeeded.
func (o *Orchestrator) Process(ctx context.Context, message string, transcript []contractx.DialogueTurn) contractx.OrchestratorResult {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		Message:    message,
		Transcript: transcript,
	})
	if err != nil {
		o.log.Error().Err(err).Msg("orchestrator turn failed")
		return contractx.OrchestratorResult{
			AgentTurnResult: contractx.AgentTurnResult{
				Success: false,
				AgentID: contractx.AgentOrchestrator,
				Reply:   "I apologize, but something went wrong while handling your message. Please try again.",
				Error:   err.Error(),
			},
			Routing: contractx.RoutingInfo{
				ConversationState: string(o.tracker.Phase()),
				Error:             err.Error(),
			},
		}
	}

	res := out.Result
	o.log.Debug().
		Str("agent", res.Routing.SelectedAgent).
		Str("state", res.Routing.ConversationState).
		Bool("success", res.Success).
		Msg("processed turn")
	return res
}

// State returns the current conversation phase.
func (o *Orchestrator) State() statex.Phase {
	return o.tracker.Phase()
}

// CurrentAgent returns the agent that served the last committed turn.
func (o *Orchestrator) CurrentAgent() (string, bool) {
	return o.tracker.CurrentAgent()
}

// Reset returns the conversation to its initial state. Idempotent; the
// transcript is caller-owned and untouched.
func (o *Orchestrator) Reset() {
	o.tracker.Reset()
	o.log.Debug().Msg("conversation state reset")
}
