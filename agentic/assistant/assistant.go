// Package assistant orchestrates the chat pipeline: local intent matching,
// remote planning, tool execution, and response synthesis.
package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homeguard/agentic-ai/agentic/assistant/format"
	"github.com/homeguard/agentic-ai/agentic/assistant/intent"
	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/assistant/tools"
	"github.com/homeguard/agentic-ai/agentic/planner"
)

// BusyMessage is surfaced when the planner (or its local rate limit) is
// saturated.
const BusyMessage = "AI service is busy. Please try again in a moment."

// apology is rendered when the planner answered but produced nothing usable.
const apology = "I couldn't understand that request. Please try again."

// ChatResponse is the full result of one conversational turn. Tool failures
// surface inside ActionsTaken; only planner-level failures populate Error.
type ChatResponse struct {
	ID             string               `json:"id"`
	ConversationID string               `json:"conversation_id"`
	Message        string               `json:"message"`
	ActionsTaken   []ports.ActionRecord `json:"actions_taken"`
	Suggestions    []string             `json:"suggestions"`
	Timestamp      time.Time            `json:"timestamp"`
	Error          string               `json:"error,omitempty"`
}

// Assistant coordinates one turn at a time. It is safe for concurrent use;
// concurrent turns on the same conversation are last-writer-wins.
type Assistant struct {
	matcher       *intent.Matcher
	registry      *tools.Registry
	planner       ports.Planner
	store         ports.SessionStore
	limiter       ports.RateLimiter
	tracer        ports.Tracer
	logger        zerolog.Logger
	historyWindow int
}

// NewAssistant wires the orchestrator from its components. historyWindow
// bounds the trailing messages sent to the planner.
func NewAssistant(
	matcher *intent.Matcher,
	registry *tools.Registry,
	plnr ports.Planner,
	store ports.SessionStore,
	limiter ports.RateLimiter,
	tracer ports.Tracer,
	logger zerolog.Logger,
	historyWindow int,
) *Assistant {
	return &Assistant{
		matcher:       matcher,
		registry:      registry,
		planner:       plnr,
		store:         store,
		limiter:       limiter,
		tracer:        tracer,
		logger:        logger,
		historyWindow: historyWindow,
	}
}

// Chat processes one user turn. It never returns a Go error: failures are
// reported through the response's Error field so callers always get a
// well-formed turn result.
func (a *Assistant) Chat(ctx context.Context, userID, conversationID, message string) ChatResponse {
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	ctx = tools.WithUser(ctx, userID)
	ctx, finish := a.tracer.StartSpan(ctx, "chat", map[string]any{
		"conversation_id": conversationID,
	})

	resp := ChatResponse{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC(),
	}

	text, records, err := a.resolve(ctx, userID, conversationID, message)
	if err != nil {
		// Planner-level failure: no response was produced, so the turn is
		// not recorded in history.
		resp.Error = errorMessage(err)
		finish(err)
		return resp
	}

	resp.Message = text
	resp.ActionsTaken = records
	resp.Suggestions = Suggest(message)

	a.appendTurn(ctx, conversationID, message, text)
	finish(nil)
	return resp
}

// resolve produces the response text and action trail, consulting the
// planner only when no local rule matches.
func (a *Assistant) resolve(ctx context.Context, userID, conversationID, message string) (string, []ports.ActionRecord, error) {
	local, err := a.matcher.Match(ctx, message)
	if err == nil {
		return local.Text, local.Actions, nil
	}
	if !errors.Is(err, intent.ErrNoMatch) {
		return "", nil, err
	}

	release, err := a.limiter.Acquire(ctx, userID)
	if err != nil {
		return "", nil, planner.ErrBusy
	}
	defer release()

	history, err := a.store.History(ctx, conversationID, a.historyWindow)
	if err != nil {
		a.logger.Warn().Err(err).Msg("history unavailable, planning without context")
		history = nil
	}
	current := ports.Message{Role: ports.RoleUser, Text: message, CreatedAt: time.Now().UTC()}

	plan, err := a.planner.Plan(ctx, ports.PlanInput{
		System:  systemPrompt(userID),
		History: window(history, current, a.historyWindow),
		Tools:   a.registry.Specs(),
	})
	if err != nil {
		return "", nil, err
	}

	if plan.Text == "" && len(plan.Calls) == 0 {
		return apology, nil, nil
	}

	records := a.registry.ExecuteAll(ctx, plan.Calls)
	text := plan.Text
	if text == "" {
		text = format.Actions(records)
	}
	return text, records, nil
}

// appendTurn records the user and assistant messages. Store failures are
// logged, not surfaced; the response already exists.
func (a *Assistant) appendTurn(ctx context.Context, conversationID, userText, assistantText string) {
	now := time.Now().UTC()
	if err := a.store.Append(ctx, conversationID, ports.Message{
		Role: ports.RoleUser, Text: userText, CreatedAt: now,
	}); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record user turn")
		return
	}
	if err := a.store.Append(ctx, conversationID, ports.Message{
		Role: ports.RoleAssistant, Text: assistantText, CreatedAt: now,
	}); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record assistant turn")
	}
}

// History returns the retained messages of a conversation.
func (a *Assistant) History(ctx context.Context, conversationID string) ([]ports.Message, error) {
	return a.store.History(ctx, conversationID, 0)
}

// ClearHistory drops all retained conversations.
func (a *Assistant) ClearHistory(ctx context.Context) error {
	return a.store.Clear(ctx)
}

func errorMessage(err error) string {
	if errors.Is(err, planner.ErrBusy) {
		return BusyMessage
	}
	return err.Error()
}
