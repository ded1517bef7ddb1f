package nodes

import (
	"strings"
	"time"

	contractx "deskflow/agent/contract"
)

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID:     sessionID,
		Text:          text,
		CallerHistory: in.CallerHistory,
		Start:         nowFn(),
		UsedAgent:     contractx.AgentTypeOrchestrator,
	}, nil
}
