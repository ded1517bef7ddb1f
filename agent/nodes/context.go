package nodes

import (
	"strings"

	contractx "deskflow/agent/contract"
	statex "deskflow/agent/state"
)

const belowCatalogInstruction = "User budget is below current catalog pricing. " +
	"Acknowledge this before suggesting the closest matches."

// BuildContext trims history to a rough token budget (4 chars per token) and
// prepends synthetic system turns carrying the fact snapshot, an optional
// budget-mismatch instruction, and the rolling summary. History is walked
// newest to oldest; the turn that crosses the budget is still included, so
// the most recent turns always survive.
func BuildContext(history []contractx.Turn, maxTokens int, summary, slotSnapshot string) []contractx.Turn {
	var trimmed []contractx.Turn
	if len(history) > 0 {
		budgetChars := maxTokens * 4
		total := 0
		for i := len(history) - 1; i >= 0; i-- {
			total += len(history[i].Content)
			trimmed = append(trimmed, history[i])
			if total >= budgetChars {
				break
			}
		}
		// restore chronological order
		for i, j := 0, len(trimmed)-1; i < j; i, j = i+1, j-1 {
			trimmed[i], trimmed[j] = trimmed[j], trimmed[i]
		}
	}

	var prefix []contractx.Turn
	if slotSnapshot != "" {
		prefix = append(prefix, contractx.Turn{
			Role:    contractx.RoleSystem,
			Content: "Known details: " + slotSnapshot,
		})
		if strings.Contains(slotSnapshot, statex.SlotBudgetStatus+"="+statex.BudgetStatusBelowCatalog) {
			prefix = append(prefix, contractx.Turn{
				Role:    contractx.RoleSystem,
				Content: belowCatalogInstruction,
			})
		}
	}
	if summary != "" {
		prefix = append(prefix, contractx.Turn{
			Role:    contractx.RoleSystem,
			Content: "Earlier conversation summary: " + summary,
		})
	}

	return append(prefix, trimmed...)
}
