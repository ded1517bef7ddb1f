package nodes

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "deskflow/agent/contract"
	statex "deskflow/agent/state"
)

// FinalizeReply appends the reply as an assistant turn, compacts once more,
// and persists the session. Every terminal path runs through here exactly
// once, so state is never left mid-mutation.
func FinalizeReply(ctx context.Context, st *GraphState, store statex.Store, keepLast int, nowFn func() time.Time) (contractx.TurnResult, error) {
	if st.Reply == "" {
		st.Reply = FallbackReply
		st.FallbackUsed = true
	}

	st.Session.AddAssistant(st.Reply)
	st.Session.Compact(keepLast)
	st.Session.LastAgent = st.UsedAgent
	st.Session.Touch(nowFn())

	if err := store.Save(ctx, st.Session); err != nil {
		// The turn still resolves; the caller gets a reply even when
		// persistence is degraded.
		log.Error().Str("session_id", st.SessionID).Err(err).Msg("persist session failed")
	}

	toolCalls := st.ToolCalls
	if toolCalls == nil {
		toolCalls = []contractx.ToolCall{}
	}

	return contractx.TurnResult{
		Reply:          st.Reply,
		UpdatedHistory: st.Session.CloneHistory(),
		UsedAgent:      st.UsedAgent,
		ToolCalls:      toolCalls,
		LatencyMS:      float64(nowFn().Sub(st.Start)) / float64(time.Millisecond),
		FallbackUsed:   st.FallbackUsed,
	}, nil
}
