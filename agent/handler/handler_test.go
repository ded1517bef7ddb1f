package handler

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "deskflow/agent/contract"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	lastInput []*schema.Message
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func TestCompleteTextReply(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: "  Happy to help with laptops!  "},
		},
	}

	h, err := newChatHandler(context.Background(), contractx.AgentTypeConversation, fake, "conversation prompt")
	if err != nil {
		t.Fatalf("newChatHandler() error = %v", err)
	}

	out, err := h.Complete(context.Background(), []contractx.Turn{
		{Role: contractx.RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out.Kind != contractx.CompletionText {
		t.Fatalf("expected text completion, got kind=%d", out.Kind)
	}
	if out.Text != "Happy to help with laptops!" {
		t.Fatalf("unexpected text: %q", out.Text)
	}
}

func TestCompleteToolCallWinsOverText(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Content: "let me check",
				ToolCalls: []schema.ToolCall{
					{Function: schema.FunctionCall{Name: "get_order_status", Arguments: `{"order_id":"ORDER-1A2B3C"}`}},
				},
			},
		},
	}

	h, err := newChatHandler(context.Background(), contractx.AgentTypeSupport, fake, "support prompt")
	if err != nil {
		t.Fatalf("newChatHandler() error = %v", err)
	}

	out, err := h.Complete(context.Background(), []contractx.Turn{
		{Role: contractx.RoleUser, Content: "where is my order?"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out.Kind != contractx.CompletionAction {
		t.Fatalf("expected action completion, got kind=%d", out.Kind)
	}
	if out.Action.Name != "get_order_status" {
		t.Fatalf("unexpected action name: %s", out.Action.Name)
	}
	if out.Action.Args["order_id"] != "ORDER-1A2B3C" {
		t.Fatalf("unexpected args: %#v", out.Action.Args)
	}
}

func TestCompleteMalformedToolArgsDegradeToEmptyMap(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				ToolCalls: []schema.ToolCall{
					{Function: schema.FunctionCall{Name: "get_ticket_status", Arguments: `{not json`}},
				},
			},
		},
	}

	h, err := newChatHandler(context.Background(), contractx.AgentTypeSupport, fake, "support prompt")
	if err != nil {
		t.Fatalf("newChatHandler() error = %v", err)
	}

	out, err := h.Complete(context.Background(), []contractx.Turn{
		{Role: contractx.RoleUser, Content: "check my ticket"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out.Kind != contractx.CompletionAction {
		t.Fatalf("expected action completion, got kind=%d", out.Kind)
	}
	if len(out.Action.Args) != 0 {
		t.Fatalf("expected empty args, got %#v", out.Action.Args)
	}
}

func TestCompleteEmptyContentIsSchemaViolation(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: "   "},
		},
	}

	h, err := newChatHandler(context.Background(), contractx.AgentTypeSales, fake, "sales prompt")
	if err != nil {
		t.Fatalf("newChatHandler() error = %v", err)
	}

	_, err = h.Complete(context.Background(), []contractx.Turn{
		{Role: contractx.RoleUser, Content: "hi"},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestCompleteModelFailureWrapsErrModelInvoke(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("upstream 500")}

	h, err := newChatHandler(context.Background(), contractx.AgentTypeSales, fake, "sales prompt")
	if err != nil {
		t.Fatalf("newChatHandler() error = %v", err)
	}

	_, err = h.Complete(context.Background(), []contractx.Turn{
		{Role: contractx.RoleUser, Content: "hi"},
	})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestCompleteEmptyHistoryIsValidationError(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{}

	h, err := newChatHandler(context.Background(), contractx.AgentTypeConversation, fake, "conversation prompt")
	if err != nil {
		t.Fatalf("newChatHandler() error = %v", err)
	}

	_, err = h.Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func TestToMessagesFlattensActionResults(t *testing.T) {
	t.Parallel()

	msgs := toMessages("instruction", []contractx.Turn{
		{Role: contractx.RoleUser, Content: "where is my order?"},
		{Role: contractx.RoleAction, Name: "get_order_status", Content: `{"success":true}`},
		{Role: contractx.RoleAssistant, Content: "it shipped"},
	})

	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Role != schema.System || msgs[0].Content != "instruction" {
		t.Fatalf("expected leading instruction message, got %+v", msgs[0])
	}
	if msgs[2].Role != schema.System {
		t.Fatalf("expected action result as system message, got role=%s", msgs[2].Role)
	}
	if msgs[2].Content != `Result from get_order_status: {"success":true}` {
		t.Fatalf("unexpected flattened content: %q", msgs[2].Content)
	}
}

func TestHandlerToolSurface(t *testing.T) {
	t.Parallel()

	cases := []struct {
		agentType contractx.AgentType
		want      []string
	}{
		{contractx.AgentTypeOrchestrator, []string{"route_to_agent"}},
		{contractx.AgentTypeSales, []string{"get_laptop_categories", "get_laptops_in_category", "get_laptop_details", "process_sales_order", "route_to_agent"}},
		{contractx.AgentTypeSupport, []string{"submit_support_ticket", "get_order_status", "get_ticket_status", "route_to_agent"}},
		{contractx.AgentTypeConversation, nil},
	}

	for _, tc := range cases {
		tools := handlerTools(tc.agentType)
		if len(tools) != len(tc.want) {
			t.Fatalf("agent=%s: expected %d tools, got %d", tc.agentType, len(tc.want), len(tools))
		}
		for i, want := range tc.want {
			if tools[i].Name != want {
				t.Fatalf("agent=%s: tool[%d] = %s, want %s", tc.agentType, i, tools[i].Name, want)
			}
		}
	}
}
