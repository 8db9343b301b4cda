package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/conc/iter"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/clients"
)

// ListDevicesSchema defines the parameters for list_devices.
const ListDevicesSchema = `{
  "type": "object",
  "properties": {
    "device_type": {
      "type": "string",
      "description": "Optional filter by device type (e.g., 'light', 'thermostat', 'camera', 'smart_lock')"
    }
  }
}`

// ListDevicesTool fetches the device directory snapshot.
type ListDevicesTool struct {
	devices *clients.DeviceClient
}

func NewListDevicesTool(devices *clients.DeviceClient) *ListDevicesTool {
	return &ListDevicesTool{devices: devices}
}

func (t *ListDevicesTool) Name() string { return "list_devices" }

func (t *ListDevicesTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        t.Name(),
		Description: "Get a list of all IoT devices for the current user. Call this first to get device IDs.",
		JSONSchema:  []byte(ListDevicesSchema),
	}
}

func (t *ListDevicesTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		DeviceType string `json:"device_type"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	devices, err := t.devices.List(ctx, UserFrom(ctx), params.DeviceType)
	if err != nil {
		// Degrade to an empty listing with an error marker, matching the
		// directory contract consumers expect.
		return DeviceListResult{Devices: []clients.Device{}, Error: "Failed to fetch devices"}, nil
	}
	return DeviceListResult{Devices: devices}, nil
}

// DeviceStatusSchema defines the parameters for get_device_status.
const DeviceStatusSchema = `{
  "type": "object",
  "properties": {
    "device_id": {
      "type": "string",
      "description": "The ID of the device to check"
    }
  },
  "required": ["device_id"]
}`

// DeviceStatusTool fetches the status of one device.
type DeviceStatusTool struct {
	devices *clients.DeviceClient
}

func NewDeviceStatusTool(devices *clients.DeviceClient) *DeviceStatusTool {
	return &DeviceStatusTool{devices: devices}
}

func (t *DeviceStatusTool) Name() string { return "get_device_status" }

func (t *DeviceStatusTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        t.Name(),
		Description: "Get the current status of a specific device including on/off state, temperature, etc.",
		JSONSchema:  []byte(DeviceStatusSchema),
	}
}

func (t *DeviceStatusTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		DeviceID string `json:"device_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	status, err := t.devices.Status(ctx, UserFrom(ctx), params.DeviceID)
	if err != nil {
		return ErrorResult{Error: "Device not found"}, nil
	}
	return status, nil
}

// AllStatusesSchema defines the parameters for get_all_device_statuses.
const AllStatusesSchema = `{
  "type": "object",
  "properties": {}
}`

// AllStatusesTool fans out one status fetch per device and gathers the
// results in device-listing order. A single device failure degrades to a
// per-device error entry instead of failing the batch.
type AllStatusesTool struct {
	devices *clients.DeviceClient
}

func NewAllStatusesTool(devices *clients.DeviceClient) *AllStatusesTool {
	return &AllStatusesTool{devices: devices}
}

func (t *AllStatusesTool) Name() string { return "get_all_device_statuses" }

func (t *AllStatusesTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        t.Name(),
		Description: "Get status of ALL devices at once. Use this instead of multiple get_device_status calls.",
		JSONSchema:  []byte(AllStatusesSchema),
	}
}

func (t *AllStatusesTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	userID := UserFrom(ctx)

	devices, err := t.devices.List(ctx, userID, "")
	if err != nil {
		return StatusesResult{Statuses: []clients.DeviceStatus{}}, nil
	}
	if len(devices) == 0 {
		return StatusesResult{Statuses: []clients.DeviceStatus{}}, nil
	}

	statuses := iter.Map(devices, func(d *clients.Device) clients.DeviceStatus {
		status, err := t.devices.Status(ctx, userID, d.ID)
		if err != nil {
			return clients.DeviceStatus{
				DeviceID: d.ID,
				Name:     d.Name,
				Type:     d.Type,
				Online:   d.Online,
				Location: d.Location,
				Status:   "unknown",
				Error:    "Failed to get status",
			}
		}
		return status
	})

	return StatusesResult{Statuses: statuses, Count: len(statuses)}, nil
}

// SendCommandSchema defines the parameters for send_device_command.
const SendCommandSchema = `{
  "type": "object",
  "properties": {
    "device_id": {
      "type": "string",
      "description": "The ID of the device to control"
    },
    "command": {
      "type": "string",
      "description": "The command: turn_on, turn_off, set_temperature, set_brightness, lock, unlock"
    },
    "parameters": {
      "type": "object",
      "description": "Additional parameters (e.g., {temperature: 72})"
    }
  },
  "required": ["device_id", "command"]
}`

// SendCommandTool controls a device.
type SendCommandTool struct {
	devices *clients.DeviceClient
}

func NewSendCommandTool(devices *clients.DeviceClient) *SendCommandTool {
	return &SendCommandTool{devices: devices}
}

func (t *SendCommandTool) Name() string { return "send_device_command" }

func (t *SendCommandTool) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        t.Name(),
		Description: "Control a device. Commands: turn_on, turn_off, set_temperature, set_brightness, lock, unlock",
		JSONSchema:  []byte(SendCommandSchema),
	}
}

func (t *SendCommandTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		DeviceID   string         `json:"device_id"`
		Command    string         `json:"command"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.Parameters == nil {
		params.Parameters = map[string]any{}
	}

	if err := t.devices.Command(ctx, UserFrom(ctx), params.DeviceID, params.Command, params.Parameters); err != nil {
		return CommandResult{Success: false, Command: params.Command, Error: "Failed to send command"}, nil
	}
	return CommandResult{
		Success: true,
		Command: params.Command,
		Message: fmt.Sprintf("Command '%s' executed", params.Command),
	}, nil
}
