package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/homeguard/agentic-ai/agentic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config stores all configuration of the assistant core.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Services  ServicesConfig  `mapstructure:"services"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Session   SessionConfig   `mapstructure:"session"`
}

// ServicesConfig stores the downstream service endpoints the tools call.
type ServicesConfig struct {
	DeviceServiceURL       string        `mapstructure:"device_service_url"`
	NotificationServiceURL string        `mapstructure:"notification_service_url"`
	AutomationWebhookBase  string        `mapstructure:"automation_webhook_base"`
	AnalyticsServiceURL    string        `mapstructure:"analytics_service_url"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"` // per downstream HTTP call
}

// PlannerConfig stores the remote planner endpoint and retry policy.
type PlannerConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	Temperature     float32       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	MaxAttempts     int           `mapstructure:"max_attempts"`     // total attempts under rate limiting
	RetryBaseDelay  time.Duration `mapstructure:"retry_base_delay"` // first backoff delay
	RetryMaxDelay   time.Duration `mapstructure:"retry_max_delay"`  // backoff ceiling
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	HistoryWindow   int           `mapstructure:"history_window"` // trailing messages sent for context
}

// AssistantConfig stores orchestration-level knobs.
type AssistantConfig struct {
	HistoryLimit int `mapstructure:"history_limit"` // max retained messages per conversation

	// Rate limiting toward the planner
	RateLimitEnabled    bool          `mapstructure:"rate_limit_enabled"`
	RateLimitCapacity   int           `mapstructure:"rate_limit_capacity"`
	RateLimitRefillRate time.Duration `mapstructure:"rate_limit_refill_rate"`

	// Device-listing memoization
	CacheEnabled    bool `mapstructure:"cache_enabled"`
	CacheCapacity   int  `mapstructure:"cache_capacity"`
	CacheTTLSeconds int  `mapstructure:"cache_ttl_seconds"`

	// Telemetry
	EnableTracing bool `mapstructure:"enable_tracing"`
}

// SessionConfig stores session persistence settings. The default store is
// in-memory; the durable store keeps history across restarts.
type SessionConfig struct {
	Durable      bool   `mapstructure:"durable"`
	DatabasePath string `mapstructure:"database_path"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Legacy environment names used across the HomeGuard fleet.
	_ = viper.BindEnv("planner.api_key", "GEMINI_TEXT_API_KEY")
	_ = viper.BindEnv("planner.model", "GEMINI_TEXT_MODEL")
	_ = viper.BindEnv("services.device_service_url", "DEVICE_SERVICE_URL")
	_ = viper.BindEnv("services.notification_service_url", "NOTIFICATION_SERVICE_URL")
	_ = viper.BindEnv("services.automation_webhook_base", "N8N_WEBHOOK_BASE")
	_ = viper.BindEnv("services.analytics_service_url", "ANALYTICS_SERVICE_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults and environment are enough.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}

// Watch re-unmarshals AppConfig whenever the config file changes and invokes
// onChange with the fresh snapshot. Safe to call after LoadConfig.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := viper.Unmarshal(&AppConfig); err != nil {
			return
		}
		if onChange != nil {
			onChange(&AppConfig)
		}
	})
	viper.WatchConfig()
}

func setDefaults() {
	// Downstream services
	viper.SetDefault("services.device_service_url", "http://iot-device-service.sandbox:8080")
	viper.SetDefault("services.notification_service_url", "http://iot-notification-service.sandbox:8080")
	viper.SetDefault("services.automation_webhook_base", "http://iot-n8n.sandbox:5678/webhook")
	viper.SetDefault("services.analytics_service_url", "http://analytics-service:8080")
	viper.SetDefault("services.request_timeout", "30s")

	// Planner defaults
	viper.SetDefault("planner.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("planner.model", "gemini-pro-latest")
	viper.SetDefault("planner.temperature", 0.3)
	viper.SetDefault("planner.max_output_tokens", 512)
	viper.SetDefault("planner.max_attempts", 5)
	viper.SetDefault("planner.retry_base_delay", "10s")
	viper.SetDefault("planner.retry_max_delay", "60s")
	viper.SetDefault("planner.request_timeout", "30s")
	viper.SetDefault("planner.history_window", 6)

	// Assistant defaults
	viper.SetDefault("assistant.history_limit", 20)
	viper.SetDefault("assistant.rate_limit_enabled", true)
	viper.SetDefault("assistant.rate_limit_capacity", 10)
	viper.SetDefault("assistant.rate_limit_refill_rate", "1s")
	viper.SetDefault("assistant.cache_enabled", true)
	viper.SetDefault("assistant.cache_capacity", 256)
	viper.SetDefault("assistant.cache_ttl_seconds", 5)
	viper.SetDefault("assistant.enable_tracing", true)

	// Session defaults
	viper.SetDefault("session.durable", false)
	viper.SetDefault("session.database_path", filepath.Join(internal.DefaultDatabaseDir, "sessions.db"))
}
