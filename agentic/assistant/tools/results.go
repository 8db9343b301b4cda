package tools

import "github.com/homeguard/agentic-ai/agentic/clients"

// Typed tool results. Tool failures are carried as data in these values so
// callers never have to recover from executor panics or errors; the
// formatter type-switches on them instead of probing loose maps.

// DeviceListResult is the result of list_devices.
type DeviceListResult struct {
	Devices []clients.Device `json:"devices"`
	Error   string           `json:"error,omitempty"`
}

// StatusesResult is the result of get_all_device_statuses. Statuses follow
// the device-listing order regardless of fetch completion order.
type StatusesResult struct {
	Statuses []clients.DeviceStatus `json:"statuses"`
	Count    int                    `json:"count"`
}

// CommandResult is the result of send_device_command.
type CommandResult struct {
	Success bool   `json:"success"`
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AutomationResult is the result of create_automation.
type AutomationResult struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResult is the degraded shape for unknown tools, invalid arguments,
// and transport-level failures.
type ErrorResult struct {
	Error string `json:"error"`
}
