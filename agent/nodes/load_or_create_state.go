package nodes

import (
	"context"
	"errors"
	"fmt"

	contractx "deskflow/agent/contract"
	statex "deskflow/agent/state"
)

// LoadOrCreateState pulls the session from the store (creating it on first
// contact), applies a caller-supplied history override, appends the new user
// turn, compacts, and runs slot extraction over the utterance.
func LoadOrCreateState(ctx context.Context, st *GraphState, store statex.Store, keepLast int) (*GraphState, error) {
	session, err := store.Load(ctx, st.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, fmt.Errorf("load session %s: %w", st.SessionID, err)
		}
		session = statex.NewSessionState(st.SessionID, st.Start)
	}
	session.EnsureSlots()

	if st.CallerHistory != nil {
		history := make([]contractx.Turn, len(st.CallerHistory))
		copy(history, st.CallerHistory)
		session.History = history
	}

	session.AddUser(st.Text)
	session.Compact(keepLast)
	session.Slots = statex.ExtractSlots(session.Slots, st.Text)

	st.Session = session
	return st, nil
}

// AssembleContext rebuilds the bounded prompt from the current session state.
func AssembleContext(st *GraphState, maxTokens int) (*GraphState, error) {
	if st.Done {
		return st, nil
	}
	st.Context = BuildContext(st.Session.History, maxTokens, st.Session.Summary, st.Session.SlotSnapshot())
	return st, nil
}
