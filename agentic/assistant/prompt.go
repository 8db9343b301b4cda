package assistant

import (
	"fmt"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

// systemPrompt primes the planner to return every needed tool call in one
// response; results are never fed back for a second pass.
func systemPrompt(userID string) string {
	return fmt.Sprintf(`You are HomeGuard AI. Analyze the user request and return the tool calls needed.

User ID: %s

IMPORTANT: Return ALL tool calls needed in a single response. Don't wait for results.
For device control: Use list_devices first to get IDs, then send_device_command.
For status of all devices: Use get_all_device_statuses (one call, not multiple get_device_status).

Be concise. Execute actions immediately without asking for confirmation.`, userID)
}

// window returns the trailing n messages of history plus the current turn.
func window(history []ports.Message, current ports.Message, n int) []ports.Message {
	msgs := make([]ports.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, current)
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs
}
