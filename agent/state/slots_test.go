package state

import (
	"reflect"
	"testing"
)

func TestExtractSlotsEmail(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "reach me at John.Doe@Example.COM please")
	if out[SlotEmail] != "john.doe@example.com" {
		t.Fatalf("email = %q", out[SlotEmail])
	}
}

func TestExtractSlotsIdentifiers(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "my order-ab12 and ticket-XY99 are stuck")
	if out[SlotOrderID] != "ORDER-AB12" {
		t.Fatalf("order_id = %q", out[SlotOrderID])
	}
	if out[SlotTicketID] != "TICKET-XY99" {
		t.Fatalf("ticket_id = %q", out[SlotTicketID])
	}
}

func TestExtractSlotsCategoryPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{"gaming wins", "a gaming laptop for business travel", "gaming"},
		{"business", "a business machine", "business"},
		{"bare budget keyword", "something in the budget range", "budget"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := ExtractSlots(nil, tc.utterance)
			if out[SlotCategory] != tc.want {
				t.Fatalf("category = %q, want %q", out[SlotCategory], tc.want)
			}
		})
	}
}

func TestExtractSlotsNumericBudgetClaimsKeyword(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "my budget is 1500")
	if out[SlotBudget] != "1500" {
		t.Fatalf("budget = %q", out[SlotBudget])
	}
	if _, ok := out[SlotCategory]; ok {
		t.Fatalf("category should not be set when a numeric budget is present, got %q", out[SlotCategory])
	}
	if _, ok := out[SlotBudgetStatus]; ok {
		t.Fatalf("budget 1500 must not set budget_status, got %q", out[SlotBudgetStatus])
	}
}

func TestExtractSlotsBudgetFloor(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "my budget is 900 for this")
	if out[SlotBudget] != "900" {
		t.Fatalf("budget = %q", out[SlotBudget])
	}
	if out[SlotBudgetStatus] != BudgetStatusBelowCatalog {
		t.Fatalf("budget_status = %q", out[SlotBudgetStatus])
	}
}

func TestExtractSlotsDollarAmountCountsAsBudget(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "I want to buy a gaming laptop under $900")
	if out[SlotCategory] != "gaming" {
		t.Fatalf("category = %q", out[SlotCategory])
	}
	if out[SlotBudget] != "900" {
		t.Fatalf("budget = %q", out[SlotBudget])
	}
	if out[SlotBudgetStatus] != BudgetStatusBelowCatalog {
		t.Fatalf("budget_status = %q", out[SlotBudgetStatus])
	}
}

func TestExtractSlotsQuantityFirstMentionWins(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "I need a quantity of 3")
	if out[SlotQuantity] != "3" {
		t.Fatalf("quantity = %q", out[SlotQuantity])
	}

	out2 := ExtractSlots(out, "make that 5 units")
	if out2[SlotQuantity] != "3" {
		t.Fatalf("quantity overwritten: %q", out2[SlotQuantity])
	}
}

func TestExtractSlotsNoQuantityWithoutKeyword(t *testing.T) {
	t.Parallel()

	out := ExtractSlots(nil, "I have 7 laptops already")
	if _, ok := out[SlotQuantity]; ok {
		t.Fatalf("quantity set without keyword: %q", out[SlotQuantity])
	}
}

func TestExtractSlotsIdempotent(t *testing.T) {
	t.Parallel()

	utterance := "gaming laptop, budget 900, quantity 2, ORDER-77, a@b.co"
	once := ExtractSlots(nil, utterance)
	twice := ExtractSlots(once, utterance)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("extraction not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestExtractSlotsDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := map[string]string{SlotEmail: "keep@me.com"}
	out := ExtractSlots(in, "new мail nothing here")
	out["extra"] = "x"
	if len(in) != 1 || in[SlotEmail] != "keep@me.com" {
		t.Fatalf("input map mutated: %v", in)
	}
}

func TestExtractSlotsLaterNonEmptyOverwrites(t *testing.T) {
	t.Parallel()

	in := map[string]string{SlotEmail: "old@old.com"}
	out := ExtractSlots(in, "use new@new.com instead")
	if out[SlotEmail] != "new@new.com" {
		t.Fatalf("email = %q", out[SlotEmail])
	}

	// An utterance with no email leaves the previous value alone.
	out2 := ExtractSlots(out, "thanks")
	if out2[SlotEmail] != "new@new.com" {
		t.Fatalf("email dropped: %q", out2[SlotEmail])
	}
}
