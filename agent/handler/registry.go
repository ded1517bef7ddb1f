package handler

import (
	"context"
	"fmt"

	contractx "deskflow/agent/contract"
	llmx "deskflow/agent/llm"
	promptx "deskflow/agent/prompt"
)

type registryImpl struct {
	handlers map[contractx.AgentType]contractx.Handler
}

var _ contractx.Registry = (*registryImpl)(nil)

func (r *registryImpl) Handler(agentType contractx.AgentType) (contractx.Handler, bool) {
	h, ok := r.handlers[agentType]
	return h, ok
}

// NewRegistry builds one chat handler per agent type, each bound to its own
// model config and instruction.
func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	instructions := map[contractx.AgentType]string{
		contractx.AgentTypeOrchestrator: prompts.Orchestrator,
		contractx.AgentTypeSales:        prompts.Sales,
		contractx.AgentTypeSupport:      prompts.Support,
		contractx.AgentTypeConversation: prompts.Conversation,
	}

	handlers := make(map[contractx.AgentType]contractx.Handler, len(instructions))
	for _, agentType := range []contractx.AgentType{
		contractx.AgentTypeOrchestrator,
		contractx.AgentTypeSales,
		contractx.AgentTypeSupport,
		contractx.AgentTypeConversation,
	} {
		modelCfg := cfg.OpenRouterFor(agentType)
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create model for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
		}

		h, err := newChatHandler(ctx, agentType, chatModel, instructions[agentType])
		if err != nil {
			return nil, err
		}
		handlers[agentType] = h
	}

	return &registryImpl{handlers: handlers}, nil
}
