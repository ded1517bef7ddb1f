package tool

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	catalogx "deskflow/pkg/catalog"
	recordsx "deskflow/pkg/records"
)

func newSalesFixture(t *testing.T) (*Dispatcher, recordsx.Store) {
	t.Helper()

	dir := t.TempDir()
	repo, err := catalogx.NewRepository(filepath.Join(dir, "catalog.json"))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	store, err := recordsx.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	reg := NewRegistry()
	RegisterSalesTools(reg, repo, store)
	RegisterSupportTools(reg, store)
	return NewDispatcher(reg), store
}

func TestGetLaptopCategories(t *testing.T) {
	t.Parallel()

	d, _ := newSalesFixture(t)
	out := d.Execute(context.Background(), "get_laptop_categories", nil)
	if !out.Success {
		t.Fatalf("expected success, got error=%s", out.Error)
	}
	reply, _ := out.Value["user_reply"].(string)
	if reply != "Our categories are: budget, business, gaming" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestGetLaptopsInCategory(t *testing.T) {
	t.Parallel()

	d, _ := newSalesFixture(t)
	out := d.Execute(context.Background(), "get_laptops_in_category", map[string]any{"category": "gaming"})
	if !out.Success {
		t.Fatalf("expected success, got error=%s", out.Error)
	}
	reply, _ := out.Value["user_reply"].(string)
	if !strings.Contains(reply, "ROG Strix G15: $1499.99") {
		t.Fatalf("unexpected reply: %q", reply)
	}

	out = d.Execute(context.Background(), "get_laptops_in_category", map[string]any{"category": "servers"})
	if !out.Success {
		t.Fatalf("expected success payload with error field, got error=%s", out.Error)
	}
	if out.Value["error"] == nil {
		t.Fatalf("expected error field for empty category, got %#v", out.Value)
	}
}

func TestGetLaptopDetailsMissingModel(t *testing.T) {
	t.Parallel()

	d, _ := newSalesFixture(t)
	out := d.Execute(context.Background(), "get_laptop_details", map[string]any{})
	if !out.Success {
		t.Fatalf("expected success payload, got error=%s", out.Error)
	}
	reply, _ := out.Value["user_reply"].(string)
	if reply != "Please specify a model." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestProcessSalesOrderPersistsRecord(t *testing.T) {
	t.Parallel()

	d, store := newSalesFixture(t)
	out := d.Execute(context.Background(), "process_sales_order", map[string]any{
		"name":          "Ada",
		"email_address": "ada@example.com",
		"product":       "Dell XPS 13",
		"quantity":      float64(2), // JSON numbers decode as float64
	})
	if !out.Success {
		t.Fatalf("expected success, got error=%s", out.Error)
	}

	orderNumber, _ := out.Value["order_number"].(string)
	if len(orderNumber) != 6 {
		t.Fatalf("unexpected order number: %q", orderNumber)
	}
	if total, _ := out.Value["total_price"].(float64); total != 2599.98 {
		t.Fatalf("unexpected total: %v", out.Value["total_price"])
	}

	order, err := store.GetOrder(context.Background(), recordsx.OrderIDPrefix+orderNumber)
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if order.Status != recordsx.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.Quantity != 2 || order.Product != "Dell XPS 13" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestProcessSalesOrderRejectsUnknownProduct(t *testing.T) {
	t.Parallel()

	d, _ := newSalesFixture(t)
	out := d.Execute(context.Background(), "process_sales_order", map[string]any{
		"name":          "Ada",
		"email_address": "ada@example.com",
		"product":       "Commodore 64",
		"quantity":      float64(1),
	})
	if out.Success {
		t.Fatal("expected failure for unknown product")
	}
	if !out.Retryable {
		t.Fatal("tool error should be retryable")
	}
}

func TestProcessSalesOrderRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	d, _ := newSalesFixture(t)
	out := d.Execute(context.Background(), "process_sales_order", map[string]any{
		"name":          "Ada",
		"email_address": "ada@example.com",
		"product":       "Dell XPS 13",
		"quantity":      float64(0),
	})
	if out.Success {
		t.Fatal("expected failure for zero quantity")
	}
}
