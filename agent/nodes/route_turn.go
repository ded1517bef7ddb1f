package nodes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	contractx "deskflow/agent/contract"
)

const routeToolName = "route_to_agent"

// RouteTurn asks the orchestrating handler for a routing decision. A backend
// failure ends the turn with the fixed apology; an absent or invalid decision
// degrades to the keyword heuristic. Either way the outcome is recorded as an
// action-result turn so later context sees it.
func RouteTurn(ctx context.Context, st *GraphState, registry contractx.Registry, keepLast int, callTimeout time.Duration) (*GraphState, error) {
	if st.Done {
		return st, nil
	}

	orch, ok := registry.Handler(contractx.AgentTypeOrchestrator)
	if !ok {
		log.Error().Str("session_id", st.SessionID).Msg("orchestrator handler missing from registry")
		return failTurn(st), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	completion, err := orch.Complete(callCtx, st.Context)
	if err != nil {
		// A malformed decision (empty content, nameless call) is still a
		// successful backend call: the heuristic below takes over. Only
		// transport and model failures end the turn.
		if !errors.Is(err, contractx.ErrSchemaViolation) {
			log.Warn().Str("session_id", st.SessionID).Err(err).Msg("routing completion failed")
			return failTurn(st), nil
		}
		log.Warn().Str("session_id", st.SessionID).Err(err).Msg("routing decision unusable, falling back to heuristic")
	}

	var target contractx.AgentType
	routed := false
	if completion.Kind == contractx.CompletionAction && completion.Action.Name == routeToolName {
		st.Session.AddActionResult(routeToolName, marshalArgs(completion.Action.Args))
		if t, valid := ParseRouteTarget(completion.Action.Args["target"]); valid {
			target = t
			routed = true
		}
	}

	if !routed {
		target = GuessRoute(st.Text)
		st.FallbackUsed = true
		st.Session.AddActionResult(routeToolName, marshalArgs(map[string]any{
			"target":      string(target),
			"auto_routed": true,
		}))
	}

	st.Target = target
	st.Session.Compact(keepLast)
	return st, nil
}

// failTurn puts the graph into the absorbing fallback state; finalize still
// appends the reply and persists.
func failTurn(st *GraphState) *GraphState {
	st.Reply = FallbackReply
	st.FallbackUsed = true
	st.Done = true
	return st
}

func marshalArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
