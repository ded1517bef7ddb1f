package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "deskflow/agent/contract"
	nodex "deskflow/agent/nodes"
	statex "deskflow/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Config struct {
	// KeepLast is the history retention window applied on every compaction.
	KeepLast int
	// MaxHistoryTokens bounds the assembled context (approximated as 4 chars
	// per token).
	MaxHistoryTokens int
	// CallTimeout is the hard per-call budget for model and tool
	// invocations; a timeout is treated like any other backend failure.
	CallTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.KeepLast <= 0 {
		c.KeepLast = statex.DefaultKeepLast
	}
	if c.MaxHistoryTokens <= 0 {
		c.MaxHistoryTokens = 4000
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
	return c
}

// Engine composes routing, handler dispatch, tool execution, and session
// persistence into the per-turn pipeline.
type Engine struct {
	store    statex.Store
	handlers contractx.Registry
	tools    contractx.ToolGateway
	cfg      Config

	graphRunner compose.Runnable[nodex.GraphInput, contractx.TurnResult]

	// Per-session locks serialize the read-modify-persist sequence; turns on
	// different sessions run concurrently without coordination.
	locks sync.Map

	now func() time.Time
}

func New(store statex.Store, handlers contractx.Registry, tools contractx.ToolGateway, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if handlers == nil {
		return nil, errors.New("handler registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	e := &Engine{
		store:    store,
		handlers: handlers,
		tools:    tools,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}

	graphRunner, err := e.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// HandleTurn processes one inbound user message for a session. The returned
// error covers request validation only; every downstream failure resolves to
// a TurnResult with FallbackUsed set. When callerHistory is non-nil it
// replaces the stored history for this call.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, text string, callerHistory []contractx.Turn) (contractx.TurnResult, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return e.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID:     sessionID,
		Text:          text,
		CallerHistory: callerHistory,
	})
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
