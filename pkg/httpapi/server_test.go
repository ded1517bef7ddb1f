package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contractx "deskflow/agent/contract"
	recordsx "deskflow/pkg/records"
)

type fakeEngine struct {
	result contractx.TurnResult
	err    error
	calls  int
}

func (f *fakeEngine) HandleTurn(ctx context.Context, sessionID, text string, callerHistory []contractx.Turn) (contractx.TurnResult, error) {
	f.calls++
	if f.err != nil {
		return contractx.TurnResult{}, f.err
	}
	return f.result, nil
}

func newTestServer(t *testing.T, engine TurnHandler) (*Server, recordsx.Store) {
	t.Helper()
	store, err := recordsx.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewServer(engine, store, Config{RateLimitRequests: 5, RateLimitWindow: 10 * time.Second}), store
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{result: contractx.TurnResult{
		Reply:     "Our categories are: budget, business, gaming",
		UsedAgent: contractx.AgentTypeSales,
		ToolCalls: []contractx.ToolCall{},
	}}
	srv, _ := newTestServer(t, engine)

	body := `{"session_id":"s1","message":"what laptops do you sell?"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out contractx.TurnResult
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Reply != engine.result.Reply {
		t.Fatalf("unexpected reply: %q", out.Reply)
	}
	if out.UsedAgent != contractx.AgentTypeSales {
		t.Fatalf("unexpected agent: %s", out.UsedAgent)
	}
}

func TestChatEndpointRateLimit(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{result: contractx.TurnResult{Reply: "ok"}}
	store, err := recordsx.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	srv := NewServer(engine, store, Config{RateLimitRequests: 2, RateLimitWindow: time.Minute})
	handler := srv.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"session_id":"s1","message":"hi"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first two calls should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third call should be limited, got %v", codes)
	}
	if engine.calls != 2 {
		t.Fatalf("limited call must not reach the engine, calls=%d", engine.calls)
	}
}

func TestChatEndpointBadBody(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &fakeEngine{})
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTicketEndpoints(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, &fakeEngine{})
	handler := srv.Handler()
	ctx := context.Background()

	ticket := &recordsx.TicketRecord{
		TicketID:  "TICKET-1A2B3C",
		Status:    recordsx.TicketStatusOpen,
		CreatedAt: time.Now().UTC(),
		Summary:   "Support request for order 1A2B3C",
	}
	if err := store.SaveTicket(ctx, ticket); err != nil {
		t.Fatalf("SaveTicket() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tickets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TICKET-1A2B3C") {
		t.Fatalf("list body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tickets/TICKET-1A2B3C", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tickets/TICKET-NOPE", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing ticket status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tickets/TICKET-1A2B3C/status", strings.NewReader(`{"status":"Resolved"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	got, err := store.GetTicket(ctx, "TICKET-1A2B3C")
	if err != nil {
		t.Fatalf("GetTicket() error = %v", err)
	}
	if got.Status != "Resolved" {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestOrderEndpoints(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, &fakeEngine{})
	handler := srv.Handler()
	ctx := context.Background()

	order := &recordsx.OrderRecord{
		OrderID:   "ORDER-1A2B3C",
		Status:    recordsx.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
		Summary:   "Dell XPS 13 (x1)",
	}
	if err := store.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/ORDER-1A2B3C", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/ORDER-1A2B3C/status", strings.NewReader(`{"status":"Shipped"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/ORDER-1A2B3C/status", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty status should 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(1, time.Second)
	current := time.Unix(1000, 0)
	limiter.now = func() time.Time { return current }

	if !limiter.Allow("s1") {
		t.Fatal("first call should pass")
	}
	if limiter.Allow("s1") {
		t.Fatal("second call inside window should fail")
	}

	current = current.Add(2 * time.Second)
	if !limiter.Allow("s1") {
		t.Fatal("call after window should pass")
	}
	if !limiter.Allow("s2") {
		t.Fatal("different key should pass")
	}
}
