package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps each record as one JSON file: orders under <dir>/orders,
// tickets under <dir>/tickets. Writes go through a temp file and rename.
type FileStore struct {
	mu         sync.RWMutex
	ordersDir  string
	ticketsDir string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dataDir string) (*FileStore, error) {
	s := &FileStore{
		ordersDir:  filepath.Join(dataDir, "orders"),
		ticketsDir: filepath.Join(dataDir, "tickets"),
	}
	for _, dir := range []string{s.ordersDir, s.ticketsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("records: create %s: %w", dir, err)
		}
	}
	return s, nil
}

func canonicalID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func writeRecord(dir, id string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("records: encode %s: %w", id, err)
	}
	path := filepath.Join(dir, id+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("records: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("records: replace %s: %w", path, err)
	}
	return nil
}

func readRecord(dir, id string, v any) error {
	path := filepath.Join(dir, id+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return fmt.Errorf("records: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("records: parse %s: %w", path, err)
	}
	return nil
}

func listIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("records: list %s: %w", dir, err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) SaveOrder(ctx context.Context, order *OrderRecord) error {
	if order == nil || strings.TrimSpace(order.OrderID) == "" {
		return fmt.Errorf("records: order id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order.OrderID = canonicalID(order.OrderID)
	return writeRecord(s.ordersDir, order.OrderID, order)
}

func (s *FileStore) GetOrder(ctx context.Context, orderID string) (*OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var order OrderRecord
	if err := readRecord(s.ordersDir, canonicalID(orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *FileStore) ListOrders(ctx context.Context) ([]OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, err := listIDs(s.ordersDir)
	if err != nil {
		return nil, err
	}
	orders := make([]OrderRecord, 0, len(ids))
	for _, id := range ids {
		var order OrderRecord
		if err := readRecord(s.ordersDir, id, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *FileStore) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := canonicalID(orderID)
	var order OrderRecord
	if err := readRecord(s.ordersDir, id, &order); err != nil {
		return err
	}
	order.Status = status
	return writeRecord(s.ordersDir, id, &order)
}

func (s *FileStore) SaveTicket(ctx context.Context, ticket *TicketRecord) error {
	if ticket == nil || strings.TrimSpace(ticket.TicketID) == "" {
		return fmt.Errorf("records: ticket id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket.TicketID = canonicalID(ticket.TicketID)
	return writeRecord(s.ticketsDir, ticket.TicketID, ticket)
}

func (s *FileStore) GetTicket(ctx context.Context, ticketID string) (*TicketRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ticket TicketRecord
	if err := readRecord(s.ticketsDir, canonicalID(ticketID), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *FileStore) ListTickets(ctx context.Context) ([]TicketRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, err := listIDs(s.ticketsDir)
	if err != nil {
		return nil, err
	}
	tickets := make([]TicketRecord, 0, len(ids))
	for _, id := range ids {
		var ticket TicketRecord
		if err := readRecord(s.ticketsDir, id, &ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (s *FileStore) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := canonicalID(ticketID)
	var ticket TicketRecord
	if err := readRecord(s.ticketsDir, id, &ticket); err != nil {
		return err
	}
	ticket.Status = status
	return writeRecord(s.ticketsDir, id, &ticket)
}
