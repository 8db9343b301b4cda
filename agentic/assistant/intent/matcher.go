// Package intent resolves common requests locally, without a planner call.
// Rules are evaluated as one ordered table; ordering is a contract because
// some patterns are substrings of others ("unlock" vs "lock").
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/homeguard/agentic-ai/agentic/assistant/format"
	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/assistant/tools"
	"github.com/homeguard/agentic-ai/agentic/clients"
)

// ErrNoMatch signals that no local rule resolved the message and the
// remote planner should be consulted.
var ErrNoMatch = errors.New("no local match")

// Result is a locally resolved response with its audit trail.
type Result struct {
	Text    string
	Actions []ports.ActionRecord
}

// Matcher drives the tool executor directly from rule handlers.
type Matcher struct {
	registry *tools.Registry
	rules    []rule
	logger   zerolog.Logger
}

type rule struct {
	name  string
	apply func(ctx context.Context, m *Matcher, msg string) (*Result, bool)
}

// NewMatcher builds the matcher with its fixed rule table.
func NewMatcher(registry *tools.Registry, logger zerolog.Logger) *Matcher {
	m := &Matcher{registry: registry, logger: logger}
	m.rules = []rule{
		{name: "list_devices", apply: matchDeviceList},
		{name: "bulk_status", apply: matchBulkStatus},
		{name: "single_status", apply: matchSingleStatus},
		{name: "all_lights", apply: matchAllLights},
		{name: "specific_device", apply: matchSpecificDevice},
		{name: "lock_unlock", apply: matchLockUnlock},
		{name: "set_temperature", apply: matchSetTemperature},
		{name: "analytics", apply: matchAnalytics},
	}
	return m
}

// Match attempts local resolution of a normalized (lower-cased, trimmed)
// message. It returns the first matching rule's result or ErrNoMatch.
func (m *Matcher) Match(ctx context.Context, msg string) (*Result, error) {
	msg = strings.ToLower(strings.TrimSpace(msg))
	for _, r := range m.rules {
		if result, ok := r.apply(ctx, m, msg); ok {
			m.logger.Debug().Str("rule", r.name).Msg("resolved locally")
			return result, nil
		}
	}
	return nil, ErrNoMatch
}

// onOffActions maps action phrases to device commands, in match order.
var onOffActions = []struct {
	phrase  string
	command string
}{
	{"turn on", "turn_on"},
	{"turn off", "turn_off"},
	{"switch on", "turn_on"},
	{"switch off", "turn_off"},
}

var deviceListPatterns = []string{
	"what devices", "list devices", "show devices", "my devices", "all devices", "do i have",
}

var bulkStatusPatterns = []string{
	"status of all", "all device status", "all status", "status of my devices", "show me all device",
}

var singleStatusPatterns = []string{
	"status of", "what is the status", "is the", "check the", "how is the",
}

var analyticsPatterns = []string{
	"analytics", "usage", "activity", "summary", "insights",
}

// stopWords are stripped from a message when extracting a device name.
var stopWords = []string{"the", "my", "please", "can you", "could you", "device", "for me"}

var digitPattern = regexp.MustCompile(`\d+`)

func matchDeviceList(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	if !containsAny(msg, deviceListPatterns) || strings.Contains(msg, "status") {
		return nil, false
	}

	result, record := m.listDevices(ctx, "")
	return &Result{
		Text:    format.DeviceList(result),
		Actions: []ports.ActionRecord{record},
	}, true
}

func matchBulkStatus(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	if !containsAny(msg, bulkStatusPatterns) {
		return nil, false
	}

	record := m.registry.Execute(ctx, ports.ToolCall{Name: "get_all_device_statuses"})
	statuses, _ := record.Result.(tools.StatusesResult)
	return &Result{
		Text:    format.AllStatuses(statuses),
		Actions: []ports.ActionRecord{record},
	}, true
}

func matchSingleStatus(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	if !containsAny(msg, singleStatusPatterns) {
		return nil, false
	}

	listResult, listRecord := m.listDevices(ctx, "")
	for _, device := range listResult.Devices {
		if !nameMentioned(msg, device.Name) {
			continue
		}
		statusRecord := m.registry.Execute(ctx, ports.ToolCall{
			Name: "get_device_status",
			Args: mustArgs(map[string]any{"device_id": device.ID}),
		})
		status, _ := statusRecord.Result.(clients.DeviceStatus)
		return &Result{
			Text:    format.SingleStatus(device, status),
			Actions: []ports.ActionRecord{listRecord, statusRecord},
		}, true
	}

	// No device referenced; later rules may still apply.
	return nil, false
}

func matchAllLights(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	for _, action := range onOffActions {
		if !strings.Contains(msg, action.phrase) || !strings.Contains(msg, "all") || !strings.Contains(msg, "light") {
			continue
		}

		listResult, _ := m.listDevices(ctx, clients.TypeLight)
		if len(listResult.Devices) == 0 {
			continue
		}

		var records []ports.ActionRecord
		for _, light := range listResult.Devices {
			records = append(records, m.registry.Execute(ctx, ports.ToolCall{
				Name: "send_device_command",
				Args: mustArgs(map[string]any{"device_id": light.ID, "command": action.command}),
			}))
		}

		state := "on"
		if action.command == "turn_off" {
			state = "off"
		}
		return &Result{
			Text:    fmt.Sprintf("Done! I've turned %s all %d light(s).", state, len(listResult.Devices)),
			Actions: records,
		}, true
	}
	return nil, false
}

func matchSpecificDevice(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	for _, action := range onOffActions {
		if !strings.Contains(msg, action.phrase) {
			continue
		}

		fragment := extractDeviceName(msg, action.phrase)
		if fragment == "" {
			continue
		}

		listResult, listRecord := m.listDevices(ctx, "")
		device, found := findDeviceByName(listResult.Devices, fragment)
		if !found {
			continue
		}

		cmdRecord := m.registry.Execute(ctx, ports.ToolCall{
			Name: "send_device_command",
			Args: mustArgs(map[string]any{"device_id": device.ID, "command": action.command}),
		})

		state := "on"
		if action.command == "turn_off" {
			state = "off"
		}
		return &Result{
			Text:    fmt.Sprintf("Done! I've turned %s the %s.", state, device.Name),
			Actions: []ports.ActionRecord{listRecord, cmdRecord},
		}, true
	}
	return nil, false
}

func matchLockUnlock(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	// "unlock" must be checked before "lock": the latter is a substring.
	for _, action := range []string{"unlock", "lock"} {
		if !strings.Contains(msg, action) {
			continue
		}
		if !strings.Contains(msg, "door") && !strings.Contains(msg, "lock") {
			continue
		}

		listResult, listRecord := m.listDevices(ctx, clients.TypeSmartLock)
		if len(listResult.Devices) == 0 {
			continue
		}

		device := listResult.Devices[0]
		cmdRecord := m.registry.Execute(ctx, ports.ToolCall{
			Name: "send_device_command",
			Args: mustArgs(map[string]any{"device_id": device.ID, "command": action}),
		})

		return &Result{
			Text:    fmt.Sprintf("Done! I've %sed the %s.", action, device.Name),
			Actions: []ports.ActionRecord{listRecord, cmdRecord},
		}, true
	}
	return nil, false
}

func matchSetTemperature(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	if !strings.Contains(msg, "temperature") && !strings.Contains(msg, "thermostat") {
		return nil, false
	}
	digits := digitPattern.FindString(msg)
	if digits == "" {
		return nil, false
	}
	if !strings.Contains(msg, "set") && !strings.Contains(msg, "to") {
		return nil, false
	}
	temp, err := strconv.Atoi(digits)
	if err != nil {
		return nil, false
	}

	listResult, listRecord := m.listDevices(ctx, clients.TypeThermostat)
	if len(listResult.Devices) == 0 {
		return nil, false
	}

	device := listResult.Devices[0]
	cmdRecord := m.registry.Execute(ctx, ports.ToolCall{
		Name: "send_device_command",
		Args: mustArgs(map[string]any{
			"device_id":  device.ID,
			"command":    "set_temperature",
			"parameters": map[string]any{"temperature": temp},
		}),
	})

	return &Result{
		Text:    fmt.Sprintf("Done! I've set the %s to %d°F.", device.Name, temp),
		Actions: []ports.ActionRecord{listRecord, cmdRecord},
	}, true
}

func matchAnalytics(ctx context.Context, m *Matcher, msg string) (*Result, bool) {
	if !containsAny(msg, analyticsPatterns) {
		return nil, false
	}

	// Precedence contract: default day, week overrides, month overrides
	// week when both appear.
	period := "day"
	if strings.Contains(msg, "week") {
		period = "week"
	}
	if strings.Contains(msg, "month") {
		period = "month"
	}

	record := m.registry.Execute(ctx, ports.ToolCall{
		Name: "get_analytics",
		Args: mustArgs(map[string]any{"period": period}),
	})

	summary, ok := record.Result.(clients.AnalyticsSummary)
	if !ok {
		summary = clients.AnalyticsSummary{Period: period}
	}
	return &Result{
		Text:    format.Analytics(summary),
		Actions: []ports.ActionRecord{record},
	}, true
}

func (m *Matcher) listDevices(ctx context.Context, deviceType string) (tools.DeviceListResult, ports.ActionRecord) {
	args := map[string]any{}
	if deviceType != "" {
		args["device_type"] = deviceType
	}
	record := m.registry.Execute(ctx, ports.ToolCall{Name: "list_devices", Args: mustArgs(args)})
	result, _ := record.Result.(tools.DeviceListResult)
	return result, record
}

func containsAny(msg string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// nameMentioned reports whether any word of the device name longer than two
// characters appears in the message.
func nameMentioned(msg, deviceName string) bool {
	for _, word := range strings.Fields(strings.ToLower(deviceName)) {
		if len(word) > 2 && strings.Contains(msg, word) {
			return true
		}
	}
	return false
}

// extractDeviceName strips the action phrase and stop words, leaving a
// candidate device-name fragment. Replacement is substring-based by
// contract, matching the observed behavior on overlapping words.
func extractDeviceName(msg, action string) string {
	text := strings.TrimSpace(strings.ReplaceAll(msg, action, ""))
	for _, w := range stopWords {
		text = strings.TrimSpace(strings.ReplaceAll(text, w, ""))
	}
	return text
}

// findDeviceByName matches case-insensitively in both directions: the
// fragment may contain the device name or vice versa.
func findDeviceByName(devices []clients.Device, fragment string) (clients.Device, bool) {
	fragment = strings.ToLower(fragment)
	for _, d := range devices {
		name := strings.ToLower(d.Name)
		if strings.Contains(name, fragment) || strings.Contains(fragment, name) {
			return d, true
		}
	}
	return clients.Device{}, false
}

func mustArgs(args map[string]any) json.RawMessage {
	raw, err := json.Marshal(args)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}
