package agentic

import (
	"os"
	"path/filepath"
)

// DefaultAppName is used for config lookup paths and user-agent strings.
const DefaultAppName = "homeguard-agentic"

// DefaultConfigPath is the fallback directory searched for config files.
var DefaultConfigPath = configHome()

// DefaultDatabaseDir holds the embedded session database when the durable
// store is enabled.
var DefaultDatabaseDir = filepath.Join(configHome(), "data")

func configHome() string {
	home, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, DefaultAppName)
}
