package state

import (
	"regexp"
	"strconv"
	"strings"
)

// Slot keys form a closed, handler-defined vocabulary.
const (
	SlotEmail        = "email"
	SlotOrderID      = "order_id"
	SlotTicketID     = "ticket_id"
	SlotCategory     = "category"
	SlotBudget       = "budget"
	SlotBudgetStatus = "budget_status"
	SlotQuantity     = "quantity"
)

// BudgetStatusBelowCatalog marks a stated budget under the catalog floor; the
// context assembler turns it into an instruction for the downstream handler.
const BudgetStatusBelowCatalog = "below_catalog"

// catalogFloor is the cheapest catalog price band; budgets under it get the
// below_catalog marker.
const catalogFloor = 1200

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	orderIDPattern  = regexp.MustCompile(`ORDER-[A-Z0-9]+`)
	ticketIDPattern = regexp.MustCompile(`TICKET-[A-Z0-9]+`)
	budgetPattern   = regexp.MustCompile(`\$?\s?(\d{3,5})`)
	quantityPattern = regexp.MustCompile(`\b(\d+)\b`)
)

// ExtractSlots scans an utterance for structured facts and merges them into a
// copy of the given slot map. The merge never overwrites a key with an empty
// candidate, a later non-empty extraction wins, and quantity is
// first-mention-wins. Extraction never fails: unparseable patterns simply
// contribute nothing, and running the extractor twice is idempotent.
func ExtractSlots(slots map[string]string, utterance string) map[string]string {
	out := make(map[string]string, len(slots)+4)
	for k, v := range slots {
		out[k] = v
	}

	lower := strings.ToLower(utterance)
	upper := strings.ToUpper(utterance)

	if m := emailPattern.FindString(utterance); m != "" {
		out[SlotEmail] = strings.ToLower(m)
	}
	if m := orderIDPattern.FindString(upper); m != "" {
		out[SlotOrderID] = m
	}
	if m := ticketIDPattern.FindString(upper); m != "" {
		out[SlotTicketID] = m
	}

	budget := extractBudget(utterance, lower)
	if budget != "" {
		out[SlotBudget] = budget
		if v, err := strconv.Atoi(budget); err == nil && v < catalogFloor {
			out[SlotBudgetStatus] = BudgetStatusBelowCatalog
		}
	}

	switch {
	case strings.Contains(lower, "gaming"):
		out[SlotCategory] = "gaming"
	case strings.Contains(lower, "business"):
		out[SlotCategory] = "business"
	case strings.Contains(lower, "budget") && budget == "":
		// A numeric budget in the same utterance claims the word "budget"
		// for the budget key; only the bare keyword names the category.
		out[SlotCategory] = "budget"
	}

	if _, ok := out[SlotQuantity]; !ok {
		if strings.Contains(lower, "quantity") || strings.Contains(lower, "units") {
			if m := quantityPattern.FindStringSubmatch(utterance); m != nil {
				out[SlotQuantity] = m[1]
			}
		}
	}

	return out
}

// extractBudget returns a 3-5 digit amount when the utterance signals it is a
// budget: either the word "budget" appears, or the amount carries a currency
// prefix ("$900", "under $900").
func extractBudget(utterance, lower string) string {
	if !strings.Contains(lower, "budget") && !strings.Contains(utterance, "$") {
		return ""
	}
	m := budgetPattern.FindStringSubmatch(utterance)
	if m == nil {
		return ""
	}
	return m[1]
}
