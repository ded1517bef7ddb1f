package nodes

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "deskflow/agent/contract"
)

// InvokeHandler runs the selected handler against the reassembled context.
// Backend failure is fatal for the turn and resolves to the fixed apology.
func InvokeHandler(ctx context.Context, st *GraphState, registry contractx.Registry, callTimeout time.Duration) (*GraphState, error) {
	if st.Done {
		return st, nil
	}

	h, ok := registry.Handler(st.Target)
	if !ok {
		log.Error().Str("session_id", st.SessionID).Str("target", string(st.Target)).Msg("routed handler missing from registry")
		return failTurn(st), nil
	}
	st.UsedAgent = st.Target

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	completion, err := h.Complete(callCtx, st.Context)
	if err != nil {
		log.Warn().Str("session_id", st.SessionID).Str("agent", string(st.Target)).Err(err).Msg("handler completion failed")
		return failTurn(st), nil
	}

	st.Completion = completion
	return st, nil
}
