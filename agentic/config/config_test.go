package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite isolates each test in a temp working directory so stray
// config files never leak into viper's search path.
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	viper.Reset()

	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "agentic-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	require.NoError(suite.T(), os.Chdir(tempDir))
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		_ = os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		_ = os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	t := suite.T()
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Planner.BaseURL)
	assert.Equal(t, "gemini-pro-latest", cfg.Planner.Model)
	assert.InDelta(t, 0.3, cfg.Planner.Temperature, 0.001)
	assert.Equal(t, 512, cfg.Planner.MaxOutputTokens)
	assert.Equal(t, 5, cfg.Planner.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Planner.RetryBaseDelay)
	assert.Equal(t, 60*time.Second, cfg.Planner.RetryMaxDelay)
	assert.Equal(t, 6, cfg.Planner.HistoryWindow)

	assert.Equal(t, "http://iot-device-service.sandbox:8080", cfg.Services.DeviceServiceURL)
	assert.Equal(t, "http://iot-n8n.sandbox:5678/webhook", cfg.Services.AutomationWebhookBase)
	assert.Equal(t, 30*time.Second, cfg.Services.RequestTimeout)

	assert.Equal(t, 20, cfg.Assistant.HistoryLimit)
	assert.True(t, cfg.Assistant.RateLimitEnabled)
	assert.True(t, cfg.Assistant.CacheEnabled)
	assert.False(t, cfg.Session.Durable)
}

func (suite *ConfigTestSuite) TestLoadConfigFromFile() {
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	content := `
planner:
  model: gemini-flash
  max_attempts: 3
services:
  device_service_url: http://localhost:9999
session:
  durable: true
`
	require.NoError(suite.T(), os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(suite.T(), err)

	t := suite.T()
	assert.Equal(t, "gemini-flash", cfg.Planner.Model)
	assert.Equal(t, 3, cfg.Planner.MaxAttempts)
	assert.Equal(t, "http://localhost:9999", cfg.Services.DeviceServiceURL)
	assert.True(t, cfg.Session.Durable)

	// Unset keys keep their defaults.
	assert.Equal(t, 6, cfg.Planner.HistoryWindow)
}

func (suite *ConfigTestSuite) TestLegacyEnvironmentNames() {
	suite.T().Setenv("GEMINI_TEXT_API_KEY", "env-key")
	suite.T().Setenv("DEVICE_SERVICE_URL", "http://devices.env:8080")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "env-key", cfg.Planner.APIKey)
	assert.Equal(suite.T(), "http://devices.env:8080", cfg.Services.DeviceServiceURL)
}
