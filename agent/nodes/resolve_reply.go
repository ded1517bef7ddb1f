package nodes

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	contractx "deskflow/agent/contract"
)

const completedReply = "Request completed."

// ResolveReply turns the handler's completion into the user-visible reply.
// Action completions are dispatched through the tool gateway and their
// normalized result is folded back into history.
func ResolveReply(ctx context.Context, st *GraphState, tools contractx.ToolGateway, callTimeout time.Duration) (*GraphState, error) {
	if st.Done {
		return st, nil
	}

	switch st.Completion.Kind {
	case contractx.CompletionAction:
		invocation := st.Completion.Action

		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		result := tools.Execute(callCtx, invocation.Name, invocation.Args)
		cancel()

		st.ToolCalls = append(st.ToolCalls, contractx.ToolCall{
			Name:   invocation.Name,
			Args:   invocation.Args,
			Result: result,
		})
		st.Session.AddActionResult(invocation.Name, marshalResult(result))

		if !result.Success {
			st.FallbackUsed = true
			if result.Error != "" {
				st.Reply = result.Error
			} else {
				st.Reply = FallbackReply
			}
			return st, nil
		}

		if reply := replyFromValue(result.Value); reply != "" {
			st.Reply = reply
		} else {
			st.Reply = completedReply
		}
		return st, nil

	default:
		text := strings.TrimSpace(st.Completion.Text)
		if text == "" {
			st.Reply = FallbackReply
			st.FallbackUsed = true
			return st, nil
		}
		st.Reply = text
		return st, nil
	}
}

// replyFromValue extracts the conventional user-facing message from a tool
// payload, preferring "user_reply" over "message".
func replyFromValue(value map[string]any) string {
	for _, key := range []string{"user_reply", "message"} {
		if s, ok := value[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func marshalResult(result contractx.ActionResult) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return `{"success":false,"error":"unencodable tool result","retryable":false}`
	}
	return string(raw)
}
