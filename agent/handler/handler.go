package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "deskflow/agent/contract"
)

type chatHandler struct {
	agentType contractx.AgentType
	runner    compose.Runnable[[]contractx.Turn, *schema.Message]
}

var _ contractx.Handler = (*chatHandler)(nil)

func newChatHandler(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	instruction string,
) (*chatHandler, error) {
	tools := handlerTools(agentType)

	boundModel := einomodel.BaseChatModel(chatModel)
	if len(tools) > 0 {
		toolModel, err := chatModel.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
		}
		boundModel = toolModel
	}

	runner, err := compileChatGraph(ctx, boundModel, instruction, fmt.Sprintf("%s.chat_graph", agentType))
	if err != nil {
		return nil, fmt.Errorf("%w: compile chat graph for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}

	return &chatHandler{
		agentType: agentType,
		runner:    runner,
	}, nil
}

func (h *chatHandler) Type() contractx.AgentType {
	return h.agentType
}

func (h *chatHandler) Complete(ctx context.Context, history []contractx.Turn) (contractx.Completion, error) {
	msg, err := h.runner.Invoke(ctx, history)
	if err != nil {
		return contractx.Completion{}, fmt.Errorf("%w: agent=%s completion: %v", contractx.ErrModelInvoke, h.agentType, err)
	}
	if msg == nil {
		return contractx.Completion{}, fmt.Errorf("%w: agent=%s returned no message", contractx.ErrSchemaViolation, h.agentType)
	}
	return completionFromMessage(h.agentType, msg)
}

// completionFromMessage folds a raw model message into the closed completion
// union. A tool call wins over text content when both are present.
func completionFromMessage(agentType contractx.AgentType, msg *schema.Message) (contractx.Completion, error) {
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return contractx.Completion{}, fmt.Errorf("%w: agent=%s produced a tool call without a name", contractx.ErrSchemaViolation, agentType)
		}

		// Malformed argument payloads degrade to an empty arg map so the
		// dispatcher can still surface a tool-level failure.
		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				args = map[string]any{}
			}
		}

		return contractx.Completion{
			Kind: contractx.CompletionAction,
			Action: contractx.ActionInvocation{
				Name: name,
				Args: args,
			},
		}, nil
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return contractx.Completion{}, fmt.Errorf("%w: agent=%s returned empty content", contractx.ErrSchemaViolation, agentType)
	}

	return contractx.Completion{
		Kind: contractx.CompletionText,
		Text: content,
	}, nil
}

// toMessages converts conversation turns into model messages, prefixed with
// the handler instruction. Action result turns are rendered as system
// messages so the model sees tool outcomes without tool-call bookkeeping.
func toMessages(instruction string, turns []contractx.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns)+1)
	if strings.TrimSpace(instruction) != "" {
		msgs = append(msgs, schema.SystemMessage(instruction))
	}

	for _, turn := range turns {
		switch turn.Role {
		case contractx.RoleUser:
			msgs = append(msgs, schema.UserMessage(turn.Content))
		case contractx.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(turn.Content, nil))
		case contractx.RoleSystem:
			msgs = append(msgs, schema.SystemMessage(turn.Content))
		case contractx.RoleAction:
			name := strings.TrimSpace(turn.Name)
			if name == "" {
				name = "tool"
			}
			msgs = append(msgs, schema.SystemMessage(fmt.Sprintf("Result from %s: %s", name, turn.Content)))
		}
	}
	return msgs
}
