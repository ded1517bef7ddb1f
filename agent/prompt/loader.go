package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/orchestrator.txt
	orchestratorRaw string

	//go:embed template/sales.txt
	salesRaw string

	//go:embed template/support.txt
	supportRaw string

	//go:embed template/conversation.txt
	conversationRaw string
)

// PromptSet holds the per-handler instruction texts.
type PromptSet struct {
	Orchestrator string
	Sales        string
	Support      string
	Conversation string
}

// LoadPromptSet returns the embedded instructions, trimmed. Safe to call
// concurrently.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Orchestrator: strings.TrimSpace(orchestratorRaw),
		Sales:        strings.TrimSpace(salesRaw),
		Support:      strings.TrimSpace(supportRaw),
		Conversation: strings.TrimSpace(conversationRaw),
	}
}
