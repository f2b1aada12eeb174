package contract

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Agent identifiers used in routing metadata and turn results.
const (
	AgentProduct      = "product_agent"
	AgentOrder        = "order_agent"
	AgentOrchestrator = "orchestrator"
)

// DialogueTurn is one immutable entry of a conversation transcript.
// The caller owns the transcript and its retention policy.
type DialogueTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// AgentID records which agent produced an assistant turn, when known.
	// Best-effort metadata; only the conversation summary consumes it.
	AgentID string `json:"agent_id,omitempty"`
}

// ToolCallRequest is a structured function call emitted by a model turn.
type ToolCallRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolCallResult pairs an executed call with the payload its handler returned.
// The payload is opaque to the executor beyond success/failure framing.
type ToolCallResult struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args,omitempty"`
	Result any            `json:"result,omitempty"`
}

// TurnMetadata describes how a reply was produced.
type TurnMetadata struct {
	Model         string   `json:"model,omitempty"`
	Type          string   `json:"type,omitempty"` // "direct_response" | "function_calling"
	FunctionsUsed []string `json:"functions_used,omitempty"`
}

// AgentTurnResult is the terminal value of one agent turn. Failures are
// carried here as values; agents never surface turn-level errors as Go errors.
type AgentTurnResult struct {
	Success   bool             `json:"success"`
	AgentID   string           `json:"agent"`
	Reply     string           `json:"response"`
	ToolCalls []ToolCallResult `json:"function_calls"`
	Error     string           `json:"error,omitempty"`
	Metadata  TurnMetadata     `json:"metadata,omitempty"`

	// Handoff fields. HandoffOccurred is a retroactive provenance marker set
	// by the orchestrator after a successful order creation; HandoffSuggested
	// is advisory only and never changes routing for the current turn.
	HandoffOccurred    bool   `json:"handoff_occurred,omitempty"`
	HandoffFrom        string `json:"handoff_from,omitempty"`
	HandoffTo          string `json:"handoff_to,omitempty"`
	HandoffSuggested   bool   `json:"handoff_suggested,omitempty"`
	SuggestedHandoffTo string `json:"suggested_handoff_to,omitempty"`
}

// RoutingInfo is the orchestrator metadata attached to every processed turn.
type RoutingInfo struct {
	SelectedAgent     string `json:"selected_agent,omitempty"`
	ConversationState string `json:"conversation_state"`
	HasProductContext bool   `json:"has_product_context"`
	Error             string `json:"error,omitempty"`
}

// OrchestratorResult is an agent turn result annotated with routing metadata.
type OrchestratorResult struct {
	AgentTurnResult
	Routing RoutingInfo `json:"orchestrator"`
}

// ConversationSummary is best-effort text mining over a transcript.
// It is a convenience for callers, never authoritative state.
type ConversationSummary struct {
	TotalTurns        int      `json:"total_messages"`
	CurrentAgent      string   `json:"current_agent,omitempty"`
	ConversationState string   `json:"conversation_state"`
	ProductsMentioned []string `json:"products_mentioned"`
	OrdersCreated     []string `json:"orders_created"`
	AgentSwitches     int      `json:"agent_switches"`
}
