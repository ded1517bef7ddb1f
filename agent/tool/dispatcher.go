package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "deskflow/agent/contract"
)

// Dispatcher resolves tool invocations against a registry and folds every
// outcome, including panics, into an ActionResult.
type Dispatcher struct {
	registry *Registry
}

var _ contractx.ToolGateway = (*Dispatcher)(nil)

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (result contractx.ActionResult) {
	fn, ok := d.registry.Get(name)
	if !ok {
		err := fmt.Errorf("%w '%s'", contractx.ErrUnknownTool, name)
		log.Warn().Str("tool", name).Msg("unknown tool requested")
		return contractx.ActionResult{
			Success:   false,
			Error:     err.Error(),
			Retryable: false,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", name).Interface("panic", r).Msg("tool panicked")
			result = contractx.ActionResult{
				Success:   false,
				Error:     fmt.Sprintf("tool '%s' panicked: %v", name, r),
				Retryable: true,
			}
		}
	}()

	raw, err := fn(ctx, args)
	if err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("tool failed")
		return contractx.ActionResult{
			Success:   false,
			Error:     err.Error(),
			Retryable: true,
		}
	}

	// Tools speak JSON; a non-JSON payload is kept verbatim under "result".
	value := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = map[string]any{"result": raw}
	}

	return contractx.ActionResult{
		Success: true,
		Value:   value,
	}
}
