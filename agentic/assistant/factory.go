package assistant

import (
	"github.com/rs/zerolog"

	"github.com/homeguard/agentic-ai/agentic/assistant/adapters"
	"github.com/homeguard/agentic-ai/agentic/assistant/intent"
	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/assistant/tools"
	"github.com/homeguard/agentic-ai/agentic/clients"
	"github.com/homeguard/agentic-ai/agentic/config"
	"github.com/homeguard/agentic-ai/agentic/planner"
	"github.com/homeguard/agentic-ai/agentic/session"
)

// Factory creates and wires assistant components from configuration.
type Factory struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewFactory creates a factory for the given configuration.
func NewFactory(cfg *config.Config, logger zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// CreateAssistant wires the full pipeline: downstream clients, tool
// registry, intent matcher, planner, and session store.
func (f *Factory) CreateAssistant() (*Assistant, error) {
	cache := f.createCache()
	limiter := f.createRateLimiter()
	tracer := f.createTracer()

	store, err := f.createStore()
	if err != nil {
		return nil, err
	}

	timeout := f.cfg.Services.RequestTimeout
	deviceClient := clients.NewDeviceClient(
		f.cfg.Services.DeviceServiceURL, timeout, cache, f.cfg.Assistant.CacheTTLSeconds)
	automationClient := clients.NewAutomationClient(f.cfg.Services.AutomationWebhookBase, timeout)
	analyticsClient := clients.NewAnalyticsClient(f.cfg.Services.AnalyticsServiceURL, timeout)

	registry := tools.NewRegistry(f.logger,
		tools.NewListDevicesTool(deviceClient),
		tools.NewDeviceStatusTool(deviceClient),
		tools.NewAllStatusesTool(deviceClient),
		tools.NewSendCommandTool(deviceClient),
		tools.NewCreateAutomationTool(automationClient),
		tools.NewAnalyticsTool(analyticsClient),
	)

	matcher := intent.NewMatcher(registry, f.logger)
	gemini := planner.NewGeminiPlanner(f.cfg.Planner, f.logger)

	return NewAssistant(
		matcher,
		registry,
		gemini,
		store,
		limiter,
		tracer,
		f.logger,
		f.cfg.Planner.HistoryWindow,
	), nil
}

func (f *Factory) createCache() ports.Cache {
	if !f.cfg.Assistant.CacheEnabled {
		return nil // DeviceClient treats a nil cache as disabled
	}
	return adapters.NewLRUCache(f.cfg.Assistant.CacheCapacity)
}

func (f *Factory) createRateLimiter() ports.RateLimiter {
	if !f.cfg.Assistant.RateLimitEnabled {
		return adapters.NoopRateLimiter{}
	}
	return adapters.NewTokenBucket(
		f.cfg.Assistant.RateLimitCapacity, f.cfg.Assistant.RateLimitRefillRate)
}

func (f *Factory) createTracer() ports.Tracer {
	if !f.cfg.Assistant.EnableTracing {
		return adapters.NoopTracer{}
	}
	return adapters.NewZerologTracer(f.logger)
}

func (f *Factory) createStore() (ports.SessionStore, error) {
	if !f.cfg.Session.Durable {
		return session.NewMemoryStore(f.cfg.Assistant.HistoryLimit), nil
	}
	return session.NewLibSQLStore(f.cfg.Session.DatabasePath, f.cfg.Assistant.HistoryLimit)
}
