// Package planner implements the remote planning client against the Gemini
// generateContent REST endpoint.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/config"
)

var (
	// ErrBusy means every attempt was rejected with a rate-limit status.
	ErrBusy = errors.New("planner busy")
	// ErrUnavailable covers transport failures and non-retryable statuses.
	ErrUnavailable = errors.New("planner unavailable")
)

// readyAck is the scripted model turn that follows the system priming
// message, so the first real user turn lands on an alternating history.
const readyAck = "Ready to help."

// GeminiPlanner issues one generateContent request per plan, retrying only
// when the endpoint answers 429.
type GeminiPlanner struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	http   *http.Client
	sleep  func(ctx context.Context, d time.Duration) error
	logger zerolog.Logger
}

var _ ports.Planner = (*GeminiPlanner)(nil)

// NewGeminiPlanner builds a planner from config. The sleep function is a
// field so backoff is observable in tests.
func NewGeminiPlanner(cfg config.PlannerConfig, logger zerolog.Logger) *GeminiPlanner {
	return &GeminiPlanner{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.RetryBaseDelay,
		maxDelay:    cfg.RetryMaxDelay,
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		sleep:       sleepCtx,
		logger:      logger,
	}
}

// Wire shapes for the generateContent request and response.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	Tools            []toolsBlock     `json:"tools,omitempty"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text         string        `json:"text,omitempty"`
	FunctionCall *functionCall `json:"functionCall,omitempty"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type toolsBlock struct {
	FunctionDeclarations []functionDeclaration `json:"function_declarations"`
}

type functionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Plan sends the planning request and parses the first candidate. A response
// with no candidates or no parts yields an empty plan, not an error.
func (p *GeminiPlanner) Plan(ctx context.Context, in ports.PlanInput) (ports.Plan, error) {
	body, err := json.Marshal(p.buildRequest(in))
	if err != nil {
		return ports.Plan{}, fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))

	attempts := p.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.backoff(attempt)
			p.logger.Warn().
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Msg("planner rate limited, backing off")
			if err := p.sleep(ctx, delay); err != nil {
				return ports.Plan{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}

		plan, retryable, err := p.attempt(ctx, endpoint, body)
		if err == nil {
			return plan, nil
		}
		if !retryable {
			return ports.Plan{}, err
		}
	}

	return ports.Plan{}, ErrBusy
}

// attempt performs a single request. retryable is true only for 429.
func (p *GeminiPlanner) attempt(ctx context.Context, endpoint string, body []byte) (ports.Plan, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.Plan{}, false, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return ports.Plan{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ports.Plan{}, true, fmt.Errorf("%w: status 429", ErrBusy)
	}
	if resp.StatusCode != http.StatusOK {
		return ports.Plan{}, false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.Plan{}, false, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return parsePlan(parsed), false, nil
}

// buildRequest assembles the priming turns, the history window, the tool
// declarations, and the generation knobs.
func (p *GeminiPlanner) buildRequest(in ports.PlanInput) generateRequest {
	contents := make([]content, 0, len(in.History)+2)
	if in.System != "" {
		contents = append(contents,
			content{Role: "user", Parts: []part{{Text: in.System}}},
			content{Role: "model", Parts: []part{{Text: readyAck}}},
		)
	}
	for _, msg := range in.History {
		role := "user"
		if msg.Role == ports.RoleAssistant {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: msg.Text}}})
	}

	req := generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens,
		},
	}

	if len(in.Tools) > 0 {
		decls := make([]functionDeclaration, 0, len(in.Tools))
		for _, spec := range in.Tools {
			decls = append(decls, functionDeclaration{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  json.RawMessage(spec.JSONSchema),
			})
		}
		req.Tools = []toolsBlock{{FunctionDeclarations: decls}}
	}

	return req
}

// parsePlan flattens the first candidate's parts into text plus ordered
// tool-call directives.
func parsePlan(resp generateResponse) ports.Plan {
	var plan ports.Plan
	if len(resp.Candidates) == 0 {
		return plan
	}

	var text strings.Builder
	for _, pt := range resp.Candidates[0].Content.Parts {
		if pt.FunctionCall != nil {
			args := pt.FunctionCall.Args
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}
			plan.Calls = append(plan.Calls, ports.ToolCall{
				Name: pt.FunctionCall.Name,
				Args: args,
			})
			continue
		}
		if pt.Text != "" {
			text.WriteString(pt.Text)
		}
	}
	plan.Text = strings.TrimSpace(text.String())
	return plan
}

// backoff doubles the base delay per retry and caps it at the ceiling,
// giving 10s, 20s, 40s, 60s with the default policy.
func (p *GeminiPlanner) backoff(attempt int) time.Duration {
	delay := p.baseDelay << (attempt - 1)
	if p.maxDelay > 0 && delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
