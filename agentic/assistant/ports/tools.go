package assistantports

import (
	"context"
	"encoding/json"
)

// ToolSpec describes a callable tool exposed to the planner.
type ToolSpec struct {
	Name        string // unique logical name
	Description string // concise doc for model selection
	JSONSchema  []byte // JSON schema for args
}

// ToolCall represents a planner-requested invocation with JSON arguments.
// Calls are also synthesized locally by the intent matcher.
type ToolCall struct {
	Name string
	Args json.RawMessage
}

// ActionRecord is the audit entry for one executed tool call. It is
// accumulated per request, returned to the caller, and never mutated
// after creation.
type ActionRecord struct {
	Tool   string          `json:"tool"`
	Args   json.RawMessage `json:"args"`
	Result any             `json:"result"`
}

// Tool defines the runtime that executes a tool call.
type Tool interface {
	Name() string
	Spec() ToolSpec
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}
