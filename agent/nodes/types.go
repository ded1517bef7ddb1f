package nodes

import (
	"errors"
	"time"

	contractx "deskflow/agent/contract"
	statex "deskflow/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

// FallbackReply is the fixed user-safe apology used whenever a turn cannot
// be completed normally. Raw backend or tool errors never reach the user.
const FallbackReply = "I'm having trouble completing that request right now. " +
	"Please try again in a moment or share a bit more detail so I can help."

type GraphInput struct {
	SessionID string
	Text      string
	// CallerHistory, when non-nil, replaces the stored history for this call
	// only. Supports stateless clients that replay their own transcript.
	CallerHistory []contractx.Turn
}

// GraphState is threaded through every node of the per-turn graph. Failure
// nodes set Reply and Done instead of returning an error so the finalize and
// persist steps always run.
type GraphState struct {
	SessionID     string
	Text          string
	CallerHistory []contractx.Turn
	Start         time.Time

	Session *statex.SessionState
	Context []contractx.Turn

	Target       contractx.AgentType
	UsedAgent    contractx.AgentType
	Completion   contractx.Completion
	Reply        string
	FallbackUsed bool
	ToolCalls    []contractx.ToolCall
	Done         bool
}
