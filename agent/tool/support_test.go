package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	recordsx "deskflow/pkg/records"
)

func newSupportFixture(t *testing.T) (*Dispatcher, recordsx.Store) {
	t.Helper()

	store, err := recordsx.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	reg := NewRegistry()
	RegisterSupportTools(reg, store)
	return NewDispatcher(reg), store
}

func TestSubmitSupportTicket(t *testing.T) {
	t.Parallel()

	d, store := newSupportFixture(t)
	out := d.Execute(context.Background(), "submit_support_ticket", map[string]any{
		"email_address": "ada@example.com",
		"order_number":  "order-1a2b3c",
		"description":   "screen flickers at 144Hz",
	})
	if !out.Success {
		t.Fatalf("expected success, got error=%s", out.Error)
	}
	if out.Value["ticket_id"] != "TICKET-1A2B3C" {
		t.Fatalf("unexpected ticket id: %v", out.Value["ticket_id"])
	}

	ticket, err := store.GetTicket(context.Background(), "TICKET-1A2B3C")
	if err != nil {
		t.Fatalf("GetTicket() error = %v", err)
	}
	if ticket.Status != recordsx.TicketStatusOpen {
		t.Fatalf("unexpected status: %s", ticket.Status)
	}
	if ticket.OrderNumber != "1A2B3C" {
		t.Fatalf("unexpected order number: %s", ticket.OrderNumber)
	}
}

func TestSubmitSupportTicketMissingFields(t *testing.T) {
	t.Parallel()

	d, _ := newSupportFixture(t)
	out := d.Execute(context.Background(), "submit_support_ticket", map[string]any{
		"email_address": "ada@example.com",
	})
	if !out.Success {
		t.Fatalf("expected success payload with error field, got error=%s", out.Error)
	}
	if out.Value["error"] == nil {
		t.Fatalf("expected error field, got %#v", out.Value)
	}
}

func TestGetOrderStatus(t *testing.T) {
	t.Parallel()

	d, store := newSupportFixture(t)
	order := &recordsx.OrderRecord{
		OrderID:   "ORDER-1A2B3C",
		Status:    "Shipped",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary:   "Dell XPS 13 (x1)",
	}
	if err := store.SaveOrder(context.Background(), order); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}

	out := d.Execute(context.Background(), "get_order_status", map[string]any{"order_id": "order-1a2b3c"})
	if !out.Success {
		t.Fatalf("expected success, got error=%s", out.Error)
	}
	reply, _ := out.Value["user_reply"].(string)
	if !strings.Contains(reply, "Order ORDER-1A2B3C is currently 'Shipped'") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestGetOrderStatusNotFound(t *testing.T) {
	t.Parallel()

	d, _ := newSupportFixture(t)
	out := d.Execute(context.Background(), "get_order_status", map[string]any{"order_id": "ORDER-NOPE"})
	if !out.Success {
		t.Fatalf("not-found resolves to a success payload with error field, got error=%s", out.Error)
	}
	if out.Value["error"] != "Order not found" {
		t.Fatalf("unexpected payload: %#v", out.Value)
	}
}

func TestGetTicketStatusNotFound(t *testing.T) {
	t.Parallel()

	d, _ := newSupportFixture(t)
	out := d.Execute(context.Background(), "get_ticket_status", map[string]any{"ticket_id": "TICKET-NOPE"})
	if !out.Success {
		t.Fatalf("expected success payload, got error=%s", out.Error)
	}
	if out.Value["error"] != "Ticket not found" {
		t.Fatalf("unexpected payload: %#v", out.Value)
	}
}
