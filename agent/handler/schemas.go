package handler

import (
	"github.com/cloudwego/eino/schema"

	contractx "deskflow/agent/contract"
)

func routeTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: "route_to_agent",
		Desc: "Hand the conversation over to another agent.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"target": {
				Type:     schema.String,
				Desc:     "Agent that should own the next reply",
				Enum:     contractx.RouteTargetNames(),
				Required: true,
			},
		}),
	}
}

// handlerTools returns the tool schemas an agent may call. The conversation
// agent answers directly and gets none.
func handlerTools(agentType contractx.AgentType) []*schema.ToolInfo {
	switch agentType {
	case contractx.AgentTypeOrchestrator:
		return []*schema.ToolInfo{routeTool()}
	case contractx.AgentTypeSales:
		return []*schema.ToolInfo{
			{
				Name:        "get_laptop_categories",
				Desc:        "List the laptop categories available in the catalog.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
			},
			{
				Name: "get_laptops_in_category",
				Desc: "List laptops with prices and specs for one category.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category": {Type: schema.String, Desc: "Catalog category name", Required: true},
				}),
			},
			{
				Name: "get_laptop_details",
				Desc: "Fetch price and specs for a single laptop model.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"model": {Type: schema.String, Desc: "Laptop model name", Required: true},
				}),
			},
			{
				Name: "process_sales_order",
				Desc: "Place an order for a laptop once the customer has confirmed.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"name":          {Type: schema.String, Desc: "Customer name", Required: true},
					"email_address": {Type: schema.String, Desc: "Customer email address", Required: true},
					"product":       {Type: schema.String, Desc: "Laptop model to order", Required: true},
					"quantity":      {Type: schema.Integer, Desc: "Number of units", Required: true},
				}),
			},
			routeTool(),
		}
	case contractx.AgentTypeSupport:
		return []*schema.ToolInfo{
			{
				Name: "submit_support_ticket",
				Desc: "Open a support ticket for an existing order.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"email_address": {Type: schema.String, Desc: "Customer email address", Required: true},
					"order_number":  {Type: schema.String, Desc: "Order number the issue concerns", Required: true},
					"description":   {Type: schema.String, Desc: "Description of the problem", Required: true},
				}),
			},
			{
				Name: "get_order_status",
				Desc: "Look up the current status of an order.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"order_id": {Type: schema.String, Desc: "Order identifier, e.g. ORDER-1A2B3C", Required: true},
				}),
			},
			{
				Name: "get_ticket_status",
				Desc: "Look up the current status of a support ticket.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"ticket_id": {Type: schema.String, Desc: "Ticket identifier, e.g. TICKET-1A2B3C", Required: true},
				}),
			},
			routeTool(),
		}
	default:
		return nil
	}
}
