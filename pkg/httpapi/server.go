package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	contractx "deskflow/agent/contract"
	recordsx "deskflow/pkg/records"
)

// Config holds the transport-level settings.
type Config struct {
	Addr              string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" split_words:"true" default:"5"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" split_words:"true" default:"10s"`
}

// TurnHandler is the engine surface the API needs.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sessionID, text string, callerHistory []contractx.Turn) (contractx.TurnResult, error)
}

// Server exposes the chat engine plus ticket and order record management.
type Server struct {
	engine  TurnHandler
	store   recordsx.Store
	limiter *RateLimiter
}

func NewServer(engine TurnHandler, store recordsx.Store, cfg Config) *Server {
	return &Server{
		engine:  engine,
		store:   store,
		limiter: NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}
}

// Handler builds the route table wrapped with request logging and recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /tickets", s.handleListTickets)
	mux.HandleFunc("GET /tickets/{id}", s.handleTicketDetails)
	mux.HandleFunc("PUT /tickets/{id}/status", s.handleTicketStatusUpdate)
	mux.HandleFunc("GET /orders", s.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", s.handleOrderDetails)
	mux.HandleFunc("PUT /orders/{id}/status", s.handleOrderStatusUpdate)

	return logRequests(mux)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Str("method", r.Method).Str("path", r.URL.Path).Interface("panic", rec).Msg("unhandled error")
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Float64("latency_ms", float64(time.Since(start))/float64(time.Millisecond)).
			Msg("request completed")
	})
}

type chatRequest struct {
	SessionID string           `json:"session_id"`
	Message   string           `json:"message"`
	History   []contractx.Turn `json:"history,omitempty"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !s.limiter.Allow(req.SessionID) {
		log.Warn().Str("session_id", req.SessionID).Msg("rate limit exceeded")
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please wait a moment and try again.")
		return
	}

	result, err := s.engine.HandleTurn(r.Context(), req.SessionID, req.Message, req.History)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.ListTickets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

func (s *Server) handleTicketDetails(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.store.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, recordsx.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load ticket")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticket": ticket})
}

func (s *Server) handleTicketStatusUpdate(w http.ResponseWriter, r *http.Request) {
	ticketID := r.PathValue("id")
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := s.store.UpdateTicketStatus(r.Context(), ticketID, req.Status); err != nil {
		if errors.Is(err, recordsx.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update ticket")
		return
	}

	log.Info().Str("ticket_id", ticketID).Str("status", req.Status).Msg("ticket status updated")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"ticket_id":  ticketID,
		"new_status": req.Status,
		"message":    "Ticket status updated.",
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *Server) handleOrderDetails(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, recordsx.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (s *Server) handleOrderStatusUpdate(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := s.store.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		if errors.Is(err, recordsx.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	log.Info().Str("order_id", orderID).Str("status", req.Status).Msg("order status updated")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"order_id":   orderID,
		"new_status": req.Status,
		"message":    "Order status updated.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
