package intent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/assistant/tools"
	"github.com/homeguard/agentic-ai/agentic/clients"
)

type stubTool struct {
	name   string
	invoke func(ctx context.Context, args json.RawMessage) (any, error)
}

func (t *stubTool) Name() string { return t.name }

func (t *stubTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{Name: t.name, Description: t.name}
}

func (t *stubTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	return t.invoke(ctx, args)
}

var testDevices = []clients.Device{
	{ID: "d1", Name: "Living Room Light", Type: clients.TypeLight, Online: true},
	{ID: "d2", Name: "Bedroom Light", Type: clients.TypeLight, Online: true},
	{ID: "d3", Name: "Front Door Lock", Type: clients.TypeSmartLock, Online: true},
	{ID: "d4", Name: "Hallway Thermostat", Type: clients.TypeThermostat, Online: true},
}

type commandCall struct {
	DeviceID   string         `json:"device_id"`
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters"`
}

// testHarness records every command sent through the stub tool set.
type testHarness struct {
	matcher       *Matcher
	commands      *[]commandCall
	analyticsArgs *map[string]any
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	commands := &[]commandCall{}
	analyticsArgs := &map[string]any{}

	listTool := &stubTool{name: "list_devices", invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
		var params struct {
			DeviceType string `json:"device_type"`
		}
		require.NoError(t, json.Unmarshal(args, &params))

		var matched []clients.Device
		for _, d := range testDevices {
			if params.DeviceType == "" || d.Type == params.DeviceType {
				matched = append(matched, d)
			}
		}
		return tools.DeviceListResult{Devices: matched}, nil
	}}

	statusTool := &stubTool{name: "get_device_status", invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
		var params struct {
			DeviceID string `json:"device_id"`
		}
		require.NoError(t, json.Unmarshal(args, &params))
		return clients.DeviceStatus{DeviceID: params.DeviceID, State: "on"}, nil
	}}

	allStatusTool := &stubTool{name: "get_all_device_statuses", invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
		return tools.StatusesResult{
			Statuses: []clients.DeviceStatus{
				{Name: "Living Room Light", Type: clients.TypeLight, State: "on", Location: "Living Room"},
			},
			Count: 1,
		}, nil
	}}

	commandTool := &stubTool{name: "send_device_command", invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
		var call commandCall
		require.NoError(t, json.Unmarshal(args, &call))
		*commands = append(*commands, call)
		return tools.CommandResult{Success: true, Command: call.Command, Message: "Command executed"}, nil
	}}

	analyticsTool := &stubTool{name: "get_analytics", invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
		require.NoError(t, json.Unmarshal(args, analyticsArgs))
		period, _ := (*analyticsArgs)["period"].(string)
		return clients.AnalyticsSummary{Period: period}, nil
	}}

	registry := tools.NewRegistry(zerolog.Nop(),
		listTool, statusTool, allStatusTool, commandTool, analyticsTool)

	return &testHarness{
		matcher:       NewMatcher(registry, zerolog.Nop()),
		commands:      commands,
		analyticsArgs: analyticsArgs,
	}
}

func TestMatchDeviceList(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "Show my devices")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Text, "You have 4 device(s):"))
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "list_devices", result.Actions[0].Tool)
}

func TestDeviceListEmptyDirectory(t *testing.T) {
	listTool := &stubTool{name: "list_devices", invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
		return tools.DeviceListResult{Devices: []clients.Device{}}, nil
	}}
	registry := tools.NewRegistry(zerolog.Nop(), listTool)
	m := NewMatcher(registry, zerolog.Nop())

	result, err := m.Match(context.Background(), "what devices do i have?")
	require.NoError(t, err)
	assert.Equal(t, "You don't have any devices registered yet.", result.Text)

	// The listing call is still recorded even when the directory is empty.
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "list_devices", result.Actions[0].Tool)
}

func TestDeviceListSkippedWhenAskingForStatus(t *testing.T) {
	h := newTestHarness(t)

	// "all devices" matches the listing patterns, but "status" diverts the
	// message to the bulk-status rule.
	result, err := h.matcher.Match(context.Background(), "status of all devices")
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "get_all_device_statuses", result.Actions[0].Tool)
	assert.True(t, strings.HasPrefix(result.Text, "Here's the status of all your devices:"))
}

func TestMatchSingleStatus(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "what is the status of the thermostat?")
	require.NoError(t, err)
	require.Len(t, result.Actions, 2)
	assert.Equal(t, "list_devices", result.Actions[0].Tool)
	assert.Equal(t, "get_device_status", result.Actions[1].Tool)
	assert.JSONEq(t, `{"device_id": "d4"}`, string(result.Actions[1].Args))
	assert.True(t, strings.HasPrefix(result.Text, "**Hallway Thermostat** status:"))
}

func TestMatchAllLights(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "turn on all the lights")
	require.NoError(t, err)
	assert.Equal(t, "Done! I've turned on all 2 light(s).", result.Text)

	// One command per light, in listing order.
	require.Len(t, *h.commands, 2)
	assert.Equal(t, commandCall{DeviceID: "d1", Command: "turn_on"}, (*h.commands)[0])
	assert.Equal(t, commandCall{DeviceID: "d2", Command: "turn_on"}, (*h.commands)[1])
	assert.Len(t, result.Actions, 2)
}

func TestMatchSpecificDevice(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "please turn off the bedroom light")
	require.NoError(t, err)
	assert.Equal(t, "Done! I've turned off the Bedroom Light.", result.Text)
	require.Len(t, *h.commands, 1)
	assert.Equal(t, commandCall{DeviceID: "d2", Command: "turn_off"}, (*h.commands)[0])
	require.Len(t, result.Actions, 2)
	assert.Equal(t, "list_devices", result.Actions[0].Tool)
	assert.Equal(t, "send_device_command", result.Actions[1].Tool)
}

func TestUnlockMatchesBeforeLock(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "unlock the front door")
	require.NoError(t, err)
	assert.Equal(t, "Done! I've unlocked the Front Door Lock.", result.Text)
	require.Len(t, *h.commands, 1)
	assert.Equal(t, "unlock", (*h.commands)[0].Command)
	assert.Equal(t, "d3", (*h.commands)[0].DeviceID)
}

func TestLockDoors(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "lock all doors")
	require.NoError(t, err)
	assert.Equal(t, "Done! I've locked the Front Door Lock.", result.Text)
	require.Len(t, *h.commands, 1)
	assert.Equal(t, "lock", (*h.commands)[0].Command)
}

func TestMatchSetTemperature(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.matcher.Match(context.Background(), "set the temperature to 72")
	require.NoError(t, err)
	assert.Equal(t, "Done! I've set the Hallway Thermostat to 72°F.", result.Text)
	require.Len(t, *h.commands, 1)
	cmd := (*h.commands)[0]
	assert.Equal(t, "set_temperature", cmd.Command)
	assert.Equal(t, "d4", cmd.DeviceID)
	assert.Equal(t, float64(72), cmd.Parameters["temperature"])
}

func TestAnalyticsPeriodPrecedence(t *testing.T) {
	h := newTestHarness(t)

	tests := []struct {
		message string
		period  string
	}{
		{"show my usage", "day"},
		{"show usage for the week", "week"},
		{"show usage for the month", "month"},
		{"show usage for this week and month", "month"},
	}
	for _, tt := range tests {
		_, err := h.matcher.Match(context.Background(), tt.message)
		require.NoError(t, err, tt.message)
		assert.Equal(t, tt.period, (*h.analyticsArgs)["period"], tt.message)
	}
}

func TestNoMatchFallsThrough(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.matcher.Match(context.Background(), "write me a poem about autumn")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Empty(t, *h.commands)
}

func TestExtractDeviceName(t *testing.T) {
	assert.Equal(t, "bedroom light", extractDeviceName("please turn off the bedroom light", "turn off"))
	assert.Equal(t, "kitchen light", extractDeviceName("can you turn on my kitchen light for me", "turn on"))
}
