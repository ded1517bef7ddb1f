package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	recordsx "deskflow/pkg/records"
)

// RegisterSupportTools wires ticket submission and status lookup tools.
func RegisterSupportTools(reg *Registry, store recordsx.Store) {
	reg.Register("submit_support_ticket", func(ctx context.Context, args map[string]any) (string, error) {
		email := stringArg(args, "email_address")
		orderNumber := strings.ToUpper(stringArg(args, "order_number"))
		description := stringArg(args, "description")

		if email == "" || orderNumber == "" || description == "" {
			return toJSON(map[string]any{
				"error":      "All fields required.",
				"user_reply": "Email, order number, and description please.",
			})
		}

		orderNumber = strings.TrimPrefix(orderNumber, recordsx.OrderIDPrefix)
		ticketID := recordsx.TicketIDPrefix + orderNumber

		ticket := &recordsx.TicketRecord{
			TicketID:    ticketID,
			Status:      recordsx.TicketStatusOpen,
			CreatedAt:   time.Now().UTC(),
			Summary:     fmt.Sprintf("Support request for order %s", orderNumber),
			Email:       email,
			OrderNumber: orderNumber,
			Description: description,
		}
		if err := store.SaveTicket(ctx, ticket); err != nil {
			return "", err
		}

		return toJSON(map[string]any{
			"ticket_id": ticketID,
			"user_reply": fmt.Sprintf(
				"Support ticket %s created. We'll email updates to %s. "+
					"If you have more details, reply with them and I'll add them to the ticket.",
				ticketID, email,
			),
		})
	})

	reg.Register("get_order_status", func(ctx context.Context, args map[string]any) (string, error) {
		orderID := stringArg(args, "order_id")
		order, err := store.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, recordsx.ErrRecordNotFound) {
				return toJSON(map[string]any{
					"error":      "Order not found",
					"user_reply": fmt.Sprintf("I couldn't find order %s. Please double-check the ID.", orderID),
				})
			}
			return "", err
		}
		return statusPayload("order", order.OrderID, order.Status, order.Summary, order.CreatedAt)
	})

	reg.Register("get_ticket_status", func(ctx context.Context, args map[string]any) (string, error) {
		ticketID := stringArg(args, "ticket_id")
		ticket, err := store.GetTicket(ctx, ticketID)
		if err != nil {
			if errors.Is(err, recordsx.ErrRecordNotFound) {
				return toJSON(map[string]any{
					"error":      "Ticket not found",
					"user_reply": fmt.Sprintf("I couldn't find ticket %s. Please double-check the ID.", ticketID),
				})
			}
			return "", err
		}
		return statusPayload("ticket", ticket.TicketID, ticket.Status, ticket.Summary, ticket.CreatedAt)
	})
}

func statusPayload(label, id, status, summary string, createdAt time.Time) (string, error) {
	title := strings.ToUpper(label[:1]) + label[1:]
	return toJSON(map[string]any{
		label + "_id": id,
		"status":      status,
		"summary":     summary,
		"created_at":  createdAt.Format(time.RFC3339),
		"user_reply":  fmt.Sprintf("%s %s is currently '%s'. Summary: %s", title, id, status, summary),
	})
}
