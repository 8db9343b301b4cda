package assistant

import "strings"

// DefaultPrompts is the static starter catalogue shown to new sessions.
var DefaultPrompts = []string{
	"What's the status of all my devices?",
	"Turn on the living room lights",
	"Set thermostat to 72 degrees",
	"Lock the front door",
	"Show today's activity",
}

// Suggest picks a follow-up triple from the first matching keyword
// category of the user's message.
func Suggest(userMessage string) []string {
	msg := strings.ToLower(userMessage)

	switch {
	case strings.Contains(msg, "device") || strings.Contains(msg, "status"):
		return []string{"Show offline devices", "Turn on all lights", "Lock all doors"}
	case strings.Contains(msg, "temperature"):
		return []string{"Set thermostat schedule", "Show energy usage", "Turn on AC"}
	case strings.Contains(msg, "security") || strings.Contains(msg, "camera"):
		return []string{"Show motion alerts", "Lock front door", "Arm security system"}
	default:
		return []string{"What's the status of my devices?", "Turn on living room lights", "Show today's activity"}
	}
}
