package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/clients"
)

// AnalyticsSchema defines the parameters for get_analytics.
const AnalyticsSchema = `{
  "type": "object",
  "properties": {
    "period": {"type": "string", "description": "Time period: day, week, month"}
  }
}`

// AnalyticsTool reads usage summaries from the analytics service.
type AnalyticsTool struct {
	analytics *clients.AnalyticsClient
}

func NewAnalyticsTool(analytics *clients.AnalyticsClient) *AnalyticsTool {
	return &AnalyticsTool{analytics: analytics}
}

func (t *AnalyticsTool) Name() string { return "get_analytics" }

func (t *AnalyticsTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        t.Name(),
		Description: "Get analytics and insights about device usage",
		JSONSchema:  []byte(AnalyticsSchema),
	}
}

func (t *AnalyticsTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Period string `json:"period"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if params.Period == "" {
		params.Period = "day"
	}

	summary, err := t.analytics.Summary(ctx, UserFrom(ctx), params.Period)
	if err != nil {
		return ErrorResult{Error: "Failed to fetch analytics"}, nil
	}
	return summary, nil
}
