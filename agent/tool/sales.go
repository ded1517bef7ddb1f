package tool

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	catalogx "deskflow/pkg/catalog"
	recordsx "deskflow/pkg/records"
)

// RegisterSalesTools wires the catalog browsing and order placement tools.
func RegisterSalesTools(reg *Registry, repo *catalogx.Repository, store recordsx.Store) {
	reg.Register("get_laptop_categories", func(ctx context.Context, _ map[string]any) (string, error) {
		cats, err := repo.Categories()
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{
			"categories": cats,
			"user_reply": "Our categories are: " + strings.Join(cats, ", "),
		})
	})

	reg.Register("get_laptops_in_category", func(ctx context.Context, args map[string]any) (string, error) {
		category := stringArg(args, "category")
		if category == "" {
			return toJSON(map[string]any{
				"error":      "Category required.",
				"user_reply": "Please specify a category.",
			})
		}
		laptops, err := repo.LaptopsInCategory(category)
		if err != nil {
			return "", err
		}
		if len(laptops) == 0 {
			return toJSON(map[string]any{
				"error":      "No laptops here.",
				"user_reply": fmt.Sprintf("No laptops in '%s'.", category),
			})
		}

		models := make([]string, 0, len(laptops))
		for model := range laptops {
			models = append(models, model)
		}
		sort.Strings(models)
		lines := make([]string, 0, len(models))
		for _, model := range models {
			d := laptops[model]
			lines = append(lines, fmt.Sprintf("%s: $%.2f (%s)", model, d.Price, d.Specs))
		}

		return toJSON(map[string]any{
			"laptops":    laptops,
			"user_reply": strings.Join(lines, "\n"),
		})
	})

	reg.Register("get_laptop_details", func(ctx context.Context, args map[string]any) (string, error) {
		model := stringArg(args, "model")
		if model == "" {
			return toJSON(map[string]any{
				"error":      "Model required.",
				"user_reply": "Please specify a model.",
			})
		}
		details, ok, err := repo.LaptopDetails(model)
		if err != nil {
			return "", err
		}
		if !ok {
			return toJSON(map[string]any{
				"error":      "Not found.",
				"user_reply": fmt.Sprintf("Couldn't find '%s'.", model),
			})
		}
		return toJSON(map[string]any{
			"details":    details,
			"user_reply": fmt.Sprintf("%s: $%.2f, %s", model, details.Price, details.Specs),
		})
	})

	reg.Register("process_sales_order", func(ctx context.Context, args map[string]any) (string, error) {
		name := stringArg(args, "name")
		email := stringArg(args, "email_address")
		product := stringArg(args, "product")
		quantity, ok := intArg(args, "quantity")

		if name == "" || email == "" || product == "" {
			return "", fmt.Errorf("name, email, and product are required fields")
		}
		if !ok || quantity <= 0 {
			return "", fmt.Errorf("quantity must be a positive integer")
		}

		details, found, err := repo.LaptopDetails(product)
		if err != nil {
			return "", err
		}
		if !found {
			return "", fmt.Errorf("product '%s' not found in catalog", product)
		}

		totalPrice := details.Price * float64(quantity)
		orderNumber, err := newOrderNumber()
		if err != nil {
			return "", err
		}

		order := &recordsx.OrderRecord{
			OrderID:    recordsx.OrderIDPrefix + orderNumber,
			Status:     recordsx.OrderStatusPending,
			CreatedAt:  time.Now().UTC(),
			Summary:    fmt.Sprintf("%s (x%d)", product, quantity),
			Customer:   name,
			Email:      email,
			Product:    product,
			Quantity:   quantity,
			UnitPrice:  details.Price,
			TotalPrice: totalPrice,
		}
		if err := store.SaveOrder(ctx, order); err != nil {
			return "", err
		}

		return toJSON(map[string]any{
			"order_number": orderNumber,
			"total_price":  totalPrice,
			"user_reply": fmt.Sprintf(
				"Your order %s has been placed! We'll email %s with details and tracking next.",
				order.OrderID, email,
			),
		})
	})
}

// newOrderNumber returns 6 hex characters, upper case.
func newOrderNumber() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
