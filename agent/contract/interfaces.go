package contract

import "context"

// Handler is one specialized conversational role. Complete sends the given
// message sequence (the handler prepends its own instruction) and returns the
// normalized completion. A transport or backend failure wraps ErrModelInvoke;
// a response with no usable shape (empty content, nameless tool call) wraps
// ErrSchemaViolation so callers can degrade differently from a dead backend.
type Handler interface {
	Type() AgentType
	Complete(ctx context.Context, turns []Turn) (Completion, error)
}

// Registry resolves handler identities to handlers. Exactly one handler is
// active per turn; the orchestrator handler owns the routing decision.
type Registry interface {
	Handler(t AgentType) (Handler, bool)
}

// ToolGateway executes a named action against the tool registry. It never
// returns an error: every outcome, including unknown tools and panicking
// tools, is normalized into an ActionResult.
type ToolGateway interface {
	Execute(ctx context.Context, name string, args map[string]any) ActionResult
}
