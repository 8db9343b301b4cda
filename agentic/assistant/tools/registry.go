package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

// Registry holds the closed tool set built at startup. There is no dynamic
// registration at runtime; the full set is the capability surface exposed
// to the remote planner.
type Registry struct {
	tools  map[string]ports.Tool
	order  []string
	logger zerolog.Logger
}

// NewRegistry builds a registry from the given tools, preserving order for
// the planner catalogue.
func NewRegistry(logger zerolog.Logger, toolset ...ports.Tool) *Registry {
	r := &Registry{
		tools:  make(map[string]ports.Tool, len(toolset)),
		logger: logger,
	}
	for _, t := range toolset {
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r
}

// Specs returns the tool descriptor catalogue in registration order.
func (r *Registry) Specs() []ports.ToolSpec {
	specs := make([]ports.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Execute runs one tool call and returns its audit record. It never returns
// an error: unknown tools, invalid arguments, and transport failures all
// degrade to an error-shaped result inside the record.
func (r *Registry) Execute(ctx context.Context, call ports.ToolCall) ports.ActionRecord {
	args := call.Args
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	record := ports.ActionRecord{Tool: call.Name, Args: args}

	tool, ok := r.tools[call.Name]
	if !ok {
		record.Result = ErrorResult{Error: fmt.Sprintf("Unknown tool: %s", call.Name)}
		return record
	}

	if err := r.validateArgs(tool, args); err != nil {
		r.logger.Warn().Str("tool", call.Name).Err(err).Msg("tool arguments rejected")
		record.Result = ErrorResult{Error: err.Error()}
		return record
	}

	result, err := tool.Invoke(ctx, args)
	if err != nil {
		r.logger.Error().Str("tool", call.Name).Err(err).Msg("tool execution failed")
		record.Result = ErrorResult{Error: err.Error()}
		return record
	}

	r.logger.Debug().Str("tool", call.Name).Msg("tool executed")
	record.Result = result
	return record
}

// ExecuteAll runs calls in sequence, in the order given, accumulating one
// record per call.
func (r *Registry) ExecuteAll(ctx context.Context, calls []ports.ToolCall) []ports.ActionRecord {
	records := make([]ports.ActionRecord, 0, len(calls))
	for _, call := range calls {
		records = append(records, r.Execute(ctx, call))
	}
	return records
}

func (r *Registry) validateArgs(tool ports.Tool, args json.RawMessage) error {
	schema := tool.Spec().JSONSchema
	if len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(args),
	)
	if err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", tool.Name(), err)
	}
	if !result.Valid() {
		return fmt.Errorf("invalid arguments for %s: %s", tool.Name(), result.Errors()[0].String())
	}
	return nil
}
