package nodes

import (
	"strings"

	contractx "deskflow/agent/contract"
)

// Term lists for heuristic routing. Support terms are checked first: an
// utterance mentioning both ("my order is broken") is assumed to need
// support triage rather than a sale.
var (
	supportTerms = []string{"support", "issue", "ticket", "problem", "status", "help", "bug", "broken", "warranty"}
	salesTerms   = []string{"buy", "purchase", "price", "order", "quote", "spec", "laptop", "catalog", "deal"}
)

// GuessRoute is the deterministic fallback used when the orchestrating model
// does not produce a valid routing decision.
func GuessRoute(userMessage string) contractx.AgentType {
	text := strings.ToLower(userMessage)
	for _, term := range supportTerms {
		if strings.Contains(text, term) {
			return contractx.AgentTypeSupport
		}
	}
	for _, term := range salesTerms {
		if strings.Contains(text, term) {
			return contractx.AgentTypeSales
		}
	}
	return contractx.AgentTypeConversation
}

// ParseRouteTarget validates a raw target argument against the closed set of
// routing destinations.
func ParseRouteTarget(raw any) (contractx.AgentType, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	target := contractx.AgentType(strings.ToLower(strings.TrimSpace(s)))
	if !contractx.IsRouteTarget(target) {
		return "", false
	}
	return target, true
}
