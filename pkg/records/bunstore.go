package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type orderRow struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	OrderID    string    `bun:"order_id,pk"`
	Status     string    `bun:"status,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	Summary    string    `bun:"summary"`
	Customer   string    `bun:"customer"`
	Email      string    `bun:"email"`
	Product    string    `bun:"product"`
	Quantity   int       `bun:"quantity"`
	UnitPrice  float64   `bun:"unit_price"`
	TotalPrice float64   `bun:"total_price"`
}

type ticketRow struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	TicketID    string    `bun:"ticket_id,pk"`
	Status      string    `bun:"status,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	Summary     string    `bun:"summary"`
	Email       string    `bun:"email"`
	OrderNumber string    `bun:"order_number"`
	Description string    `bun:"description"`
}

// BunStore persists records in Postgres via bun.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

// NewBunStore connects to Postgres and ensures both tables exist.
func NewBunStore(ctx context.Context, dsn string) (*BunStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	s := &BunStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) createTables(ctx context.Context) error {
	for _, model := range []any{(*orderRow)(nil), (*ticketRow)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("records: create table: %w", err)
		}
	}
	return nil
}

func (s *BunStore) SaveOrder(ctx context.Context, order *OrderRecord) error {
	if order == nil || order.OrderID == "" {
		return fmt.Errorf("records: order id is required")
	}
	order.OrderID = canonicalID(order.OrderID)
	row := orderRow{
		OrderID:    order.OrderID,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		Summary:    order.Summary,
		Customer:   order.Customer,
		Email:      order.Email,
		Product:    order.Product,
		Quantity:   order.Quantity,
		UnitPrice:  order.UnitPrice,
		TotalPrice: order.TotalPrice,
	}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (order_id) DO UPDATE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: save order %s: %w", order.OrderID, err)
	}
	return nil
}

func (s *BunStore) GetOrder(ctx context.Context, orderID string) (*OrderRecord, error) {
	id := canonicalID(orderID)
	var row orderRow
	err := s.db.NewSelect().Model(&row).Where("order_id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("records: get order %s: %w", id, err)
	}
	return orderFromRow(row), nil
}

func (s *BunStore) ListOrders(ctx context.Context) ([]OrderRecord, error) {
	var rows []orderRow
	if err := s.db.NewSelect().Model(&rows).Order("order_id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("records: list orders: %w", err)
	}
	orders := make([]OrderRecord, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, *orderFromRow(row))
	}
	return orders, nil
}

func (s *BunStore) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	id := canonicalID(orderID)
	res, err := s.db.NewUpdate().Model((*orderRow)(nil)).
		Set("status = ?", status).
		Where("order_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: update order %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

func (s *BunStore) SaveTicket(ctx context.Context, ticket *TicketRecord) error {
	if ticket == nil || ticket.TicketID == "" {
		return fmt.Errorf("records: ticket id is required")
	}
	ticket.TicketID = canonicalID(ticket.TicketID)
	row := ticketRow{
		TicketID:    ticket.TicketID,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		Summary:     ticket.Summary,
		Email:       ticket.Email,
		OrderNumber: ticket.OrderNumber,
		Description: ticket.Description,
	}
	_, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (ticket_id) DO UPDATE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: save ticket %s: %w", ticket.TicketID, err)
	}
	return nil
}

func (s *BunStore) GetTicket(ctx context.Context, ticketID string) (*TicketRecord, error) {
	id := canonicalID(ticketID)
	var row ticketRow
	err := s.db.NewSelect().Model(&row).Where("ticket_id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("records: get ticket %s: %w", id, err)
	}
	return ticketFromRow(row), nil
}

func (s *BunStore) ListTickets(ctx context.Context) ([]TicketRecord, error) {
	var rows []ticketRow
	if err := s.db.NewSelect().Model(&rows).Order("ticket_id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("records: list tickets: %w", err)
	}
	tickets := make([]TicketRecord, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, *ticketFromRow(row))
	}
	return tickets, nil
}

func (s *BunStore) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	id := canonicalID(ticketID)
	res, err := s.db.NewUpdate().Model((*ticketRow)(nil)).
		Set("status = ?", status).
		Where("ticket_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("records: update ticket %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

func orderFromRow(row orderRow) *OrderRecord {
	return &OrderRecord{
		OrderID:    row.OrderID,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		Summary:    row.Summary,
		Customer:   row.Customer,
		Email:      row.Email,
		Product:    row.Product,
		Quantity:   row.Quantity,
		UnitPrice:  row.UnitPrice,
		TotalPrice: row.TotalPrice,
	}
}

func ticketFromRow(row ticketRow) *TicketRecord {
	return &TicketRecord{
		TicketID:    row.TicketID,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		Summary:     row.Summary,
		Email:       row.Email,
		OrderNumber: row.OrderNumber,
		Description: row.Description,
	}
}
