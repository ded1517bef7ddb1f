package handler

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "deskflow/agent/contract"
)

func compileChatGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	instruction string,
	graphName string,
) (compose.Runnable[[]contractx.Turn, *schema.Message], error) {
	graph := compose.NewGraph[[]contractx.Turn, *schema.Message]()

	if err := graph.AddLambdaNode("assemble_messages",
		compose.InvokableLambda(func(ctx context.Context, turns []contractx.Turn) ([]*schema.Message, error) {
			if len(turns) == 0 {
				return nil, fmt.Errorf("%w: conversation history is empty", contractx.ErrValidation)
			}
			return toMessages(instruction, turns), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add assemble node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "assemble_messages"); err != nil {
		return nil, fmt.Errorf("add edge start->assemble: %w", err)
	}
	if err := graph.AddEdge("assemble_messages", "model"); err != nil {
		return nil, fmt.Errorf("add edge assemble->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile chat graph: %w", err)
	}
	return runner, nil
}
