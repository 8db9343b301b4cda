package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/clients"
)

// CreateAutomationSchema defines the parameters for create_automation.
const CreateAutomationSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "description": "Name of the automation"},
    "trigger": {"type": "object", "description": "Trigger configuration"},
    "actions": {"type": "array", "description": "Actions to perform"}
  },
  "required": ["name", "trigger", "actions"]
}`

// CreateAutomationTool creates an automation rule via the automation webhook.
type CreateAutomationTool struct {
	automation *clients.AutomationClient
}

func NewCreateAutomationTool(automation *clients.AutomationClient) *CreateAutomationTool {
	return &CreateAutomationTool{automation: automation}
}

func (t *CreateAutomationTool) Name() string { return "create_automation" }

func (t *CreateAutomationTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        t.Name(),
		Description: "Create a new automation rule",
		JSONSchema:  []byte(CreateAutomationSchema),
	}
}

func (t *CreateAutomationTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Name    string `json:"name"`
		Trigger any    `json:"trigger"`
		Actions any    `json:"actions"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if err := t.automation.Create(ctx, UserFrom(ctx), params.Name, params.Trigger, params.Actions); err != nil {
		return AutomationResult{Success: false, Name: params.Name, Error: "Failed to create automation"}, nil
	}
	return AutomationResult{
		Success: true,
		Name:    params.Name,
		Message: fmt.Sprintf("Automation '%s' created", params.Name),
		ID:      uuid.New().String(),
	}, nil
}
