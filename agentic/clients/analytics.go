package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// AnalyticsTotals are the aggregate counters for a reporting period.
type AnalyticsTotals struct {
	TotalEvents   int    `json:"total_events"`
	ActiveDevices int    `json:"active_devices"`
	Alerts        int    `json:"alerts"`
	EnergyUsage   string `json:"energy_usage"`
}

// TopDevice is one entry of the most-active-devices ranking, in the order
// the analytics service returned it.
type TopDevice struct {
	Name   string `json:"name"`
	Events int    `json:"events"`
}

// AnalyticsSummary is the usage summary payload.
type AnalyticsSummary struct {
	Period     string          `json:"period"`
	Summary    AnalyticsTotals `json:"summary"`
	TopDevices []TopDevice     `json:"top_devices"`
}

// AnalyticsClient reads usage summaries from the analytics service.
type AnalyticsClient struct {
	baseURL string
	http    *http.Client
}

func NewAnalyticsClient(baseURL string, timeout time.Duration) *AnalyticsClient {
	return &AnalyticsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Summary fetches the usage summary for a period ("day", "week", "month").
func (c *AnalyticsClient) Summary(ctx context.Context, userID, period string) (AnalyticsSummary, error) {
	u := c.baseURL + "/analytics/summary?period=" + url.QueryEscape(period)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("build analytics request: %w", err)
	}
	req.Header.Set(identityHeader, userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("fetch analytics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AnalyticsSummary{}, fmt.Errorf("analytics service returned status %d", resp.StatusCode)
	}

	var summary AnalyticsSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return AnalyticsSummary{}, fmt.Errorf("decode analytics summary: %w", err)
	}
	return summary, nil
}
