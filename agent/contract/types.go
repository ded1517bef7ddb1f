package contract

// AgentType identifies a conversational handler. The set is closed: adding a
// handler means adding a constant here and a row in the handler registry.
type AgentType string

const (
	AgentTypeOrchestrator AgentType = "orchestrator"
	AgentTypeSales        AgentType = "sales"
	AgentTypeSupport      AgentType = "support"
	AgentTypeConversation AgentType = "conversation"
)

// RouteTargets are the agent types the orchestrator may route a turn to.
var RouteTargets = []AgentType{AgentTypeSales, AgentTypeSupport, AgentTypeConversation}

// IsRouteTarget reports whether t is a legal routing destination.
func IsRouteTarget(t AgentType) bool {
	for _, rt := range RouteTargets {
		if t == rt {
			return true
		}
	}
	return false
}

// RouteTargetNames returns the routing destinations as plain strings, in
// declaration order. Used for tool schema enums.
func RouteTargetNames() []string {
	names := make([]string, 0, len(RouteTargets))
	for _, rt := range RouteTargets {
		names = append(names, string(rt))
	}
	return names
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleAction marks a flattened action outcome (a routing decision or a
	// tool result) recorded into history so later turns can see it.
	RoleAction Role = "action_result"
)

// Turn is one message unit within a session's history. Immutable once
// appended; ordering is append-only and significant.
type Turn struct {
	Role    Role   `json:"role"`
	Name    string `json:"name,omitempty"` // action name for RoleAction turns
	Content string `json:"content"`
}

// CompletionKind discriminates the two legal shapes of a model completion.
type CompletionKind int

const (
	CompletionText CompletionKind = iota
	CompletionAction
)

// Completion is the normalized outcome of a handler's model call: either
// plain text or a structured action invocation, never both. Consumers switch
// on Kind instead of probing optional fields.
type Completion struct {
	Kind   CompletionKind
	Text   string
	Action ActionInvocation
}

// ActionInvocation is a schema-constrained request from a handler to execute
// a named side-effecting operation.
type ActionInvocation struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ActionResult is the canonical shape every tool execution resolves to,
// regardless of what the underlying tool returned or how it failed.
type ActionResult struct {
	Success   bool           `json:"success"`
	Value     map[string]any `json:"value,omitempty"`
	Error     string         `json:"error,omitempty"`
	Retryable bool           `json:"retryable"`
}

// ToolCall records one dispatched action and its normalized result.
type ToolCall struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args,omitempty"`
	Result ActionResult   `json:"result"`
}

// TurnResult is the fixed response shape of the engine; every path through a
// turn, including every failure path, resolves to it.
type TurnResult struct {
	Reply          string     `json:"reply"`
	UpdatedHistory []Turn     `json:"updated_history"`
	UsedAgent      AgentType  `json:"used_agent"`
	ToolCalls      []ToolCall `json:"tool_calls"`
	LatencyMS      float64    `json:"latency_ms"`
	FallbackUsed   bool       `json:"fallback_used"`
}
