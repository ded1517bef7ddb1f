package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "deskflow/agent/contract"
)

// RegisterRoutingTool lets specialist handlers hand a conversation back to
// another handler. The engine intercepts the orchestrator's routing call
// directly; this registration covers calls made mid-conversation by sales
// or support.
func RegisterRoutingTool(reg *Registry) {
	reg.Register("route_to_agent", func(ctx context.Context, args map[string]any) (string, error) {
		target := strings.ToLower(stringArg(args, "target"))
		if !contractx.IsRouteTarget(contractx.AgentType(target)) {
			return toJSON(map[string]any{
				"error": fmt.Sprintf("Invalid target '%s'.", target),
			})
		}
		return toJSON(map[string]any{"target": target})
	})
}
