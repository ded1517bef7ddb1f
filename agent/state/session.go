package state

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"deskflow/agent/contract"
)

const (
	// DefaultKeepLast is the retention window applied by Compact when the
	// caller does not configure one.
	DefaultKeepLast = 8

	// summaryMaxChars caps the rolling summary; when exceeded, the most
	// recent tail is kept and older summary content is discarded.
	summaryMaxChars = 2000

	// snippetMaxChars bounds the per-turn snippet folded into the summary.
	snippetMaxChars = 120
)

// SessionState is the durable per-caller conversational state: ordered turn
// history, a rolling summary of folded-away turns, extracted slots, and the
// last handler that produced a reply.
type SessionState struct {
	SessionID string             `json:"session_id"`
	History   []contract.Turn    `json:"history,omitempty"`
	Summary   string             `json:"summary,omitempty"`
	Slots     map[string]string  `json:"slots,omitempty"`
	LastAgent contract.AgentType `json:"last_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Slots:     make(map[string]string, 8),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureSlots makes sure s.Slots is initialized after decoding.
func (s *SessionState) EnsureSlots() {
	if s.Slots == nil {
		s.Slots = make(map[string]string, 8)
	}
}

func (s *SessionState) AddUser(content string) {
	s.History = append(s.History, contract.Turn{Role: contract.RoleUser, Content: content})
}

func (s *SessionState) AddAssistant(content string) {
	s.History = append(s.History, contract.Turn{Role: contract.RoleAssistant, Content: content})
}

// AddActionResult records a flattened action outcome (routing decision or
// tool result) so later turns and the summary can see it.
func (s *SessionState) AddActionResult(name, content string) {
	s.History = append(s.History, contract.Turn{Role: contract.RoleAction, Name: name, Content: content})
}

// Compact folds turns beyond the keepLast retention window into the rolling
// summary. Each overflow turn is rendered as "role: <first 120 chars>" and
// the snippets are joined with " | ". The summary itself is capped at 2000
// characters, keeping the most recent tail. No turn is dropped without being
// represented in the summary first.
func (s *SessionState) Compact(keepLast int) {
	if keepLast <= 0 {
		keepLast = DefaultKeepLast
	}
	if len(s.History) <= keepLast {
		return
	}

	older := s.History[:len(s.History)-keepLast]
	parts := make([]string, 0, len(older))
	for _, turn := range older {
		parts = append(parts, string(turn.Role)+": "+clipHead(turn.Content, snippetMaxChars))
	}
	snippet := strings.Join(parts, " | ")
	if snippet != "" {
		if s.Summary != "" {
			s.Summary = s.Summary + " | " + snippet
		} else {
			s.Summary = snippet
		}
		s.Summary = clipTail(s.Summary, summaryMaxChars)
	}

	retained := make([]contract.Turn, keepLast)
	copy(retained, s.History[len(s.History)-keepLast:])
	s.History = retained
}

// clipHead keeps at most max bytes from the front of s, never splitting a
// rune at the cut.
func clipHead(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// clipTail keeps at most max bytes from the end of s, never splitting a rune
// at the cut.
func clipTail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	start := len(s) - max
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// SlotSnapshot renders the slot map as a stable "key=value; key=value" line
// for context injection. Keys are sorted so the snapshot is deterministic.
func (s *SessionState) SlotSnapshot() string {
	if len(s.Slots) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s.Slots))
	for k := range s.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+s.Slots[k])
	}
	return strings.Join(parts, "; ")
}

// CloneHistory returns a copy of the turn list safe to hand to callers.
func (s *SessionState) CloneHistory() []contract.Turn {
	out := make([]contract.Turn, len(s.History))
	copy(out, s.History)
	return out
}

// Clone deep-copies the session state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.History = s.CloneHistory()
	out.Slots = make(map[string]string, len(s.Slots))
	for k, v := range s.Slots {
		out.Slots[k] = v
	}
	return &out
}
