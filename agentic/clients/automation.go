package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AutomationClient creates automation rules through the automation webhook.
type AutomationClient struct {
	webhookBase string
	http        *http.Client
}

func NewAutomationClient(webhookBase string, timeout time.Duration) *AutomationClient {
	return &AutomationClient{
		webhookBase: webhookBase,
		http:        &http.Client{Timeout: timeout},
	}
}

// Create posts a new automation rule. trigger and actions are passed through
// opaquely; the webhook owns their schema.
func (c *AutomationClient) Create(ctx context.Context, userID, name string, trigger any, actions any) error {
	body, err := json.Marshal(map[string]any{
		"user_id": userID,
		"name":    name,
		"trigger": trigger,
		"actions": actions,
	})
	if err != nil {
		return fmt.Errorf("encode automation: %w", err)
	}

	u := c.webhookBase + "/create-automation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build automation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post automation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("automation webhook returned status %d", resp.StatusCode)
	}
	return nil
}
