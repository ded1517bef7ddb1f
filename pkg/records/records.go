// Package records persists order and support ticket records. Two backends
// are provided: a JSON file store for standalone use and a Postgres store.
package records

import (
	"context"
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("records: record not found")

const (
	OrderStatusPending = "Pending"
	TicketStatusOpen   = "Open"
	OrderIDPrefix      = "ORDER-"
	TicketIDPrefix     = "TICKET-"
)

// OrderRecord is a placed sales order.
type OrderRecord struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	Summary    string    `json:"summary"`
	Customer   string    `json:"customer"`
	Email      string    `json:"email"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}

// TicketRecord is a support ticket raised against an order.
type TicketRecord struct {
	TicketID    string    `json:"ticket_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Summary     string    `json:"summary"`
	Email       string    `json:"email"`
	OrderNumber string    `json:"order_number"`
	Description string    `json:"description"`
}

// Store is the persistence contract shared by both backends. Identifiers are
// canonicalized to upper case before lookup.
type Store interface {
	SaveOrder(ctx context.Context, order *OrderRecord) error
	GetOrder(ctx context.Context, orderID string) (*OrderRecord, error)
	ListOrders(ctx context.Context) ([]OrderRecord, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error

	SaveTicket(ctx context.Context, ticket *TicketRecord) error
	GetTicket(ctx context.Context, ticketID string) (*TicketRecord, error)
	ListTickets(ctx context.Context) ([]TicketRecord, error)
	UpdateTicketStatus(ctx context.Context, ticketID, status string) error
}
