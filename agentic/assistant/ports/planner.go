package assistantports

import "context"

// PlanInput aggregates everything the remote planner needs to produce a plan.
type PlanInput struct {
	System  string     // high-level system instructions
	History []Message  // trailing conversation window (already bounded)
	Tools   []ToolSpec // tool declarations available to the model
}

// Plan is the planner's parsed response: optional free text plus zero or
// more tool-call directives, in the order the planner returned them.
type Plan struct {
	Text  string
	Calls []ToolCall
}

// Planner is the abstraction over the remote LLM planning endpoint. It
// issues exactly one planning request per Plan call; the planner is never
// consulted a second time to interpret tool results.
type Planner interface {
	Plan(ctx context.Context, in PlanInput) (Plan, error)
}
