package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

// identityHeader carries the caller identity to every downstream service.
const identityHeader = "X-User-ID"

// Device is a read-only snapshot from the device directory.
type Device struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Online   bool           `json:"online"`
	Status   string         `json:"status"`
	Location string         `json:"location"`
	Config   map[string]any `json:"config"`
}

// Known device types. Anything else renders through the generic path.
const (
	TypeLight      = "light"
	TypeThermostat = "thermostat"
	TypeSmartLock  = "smart_lock"
	TypeCamera     = "camera"
	TypeDoorSensor = "door_sensor"
)

// DeviceStatus is the per-device status payload from the device service.
type DeviceStatus struct {
	DeviceID          string         `json:"device_id"`
	Name              string         `json:"name"`
	Type              string         `json:"type"`
	Online            bool           `json:"online"`
	Status            string         `json:"status"`
	Location          string         `json:"location"`
	State             string         `json:"state,omitempty"`
	Brightness        *int           `json:"brightness,omitempty"`
	TargetTemperature *int           `json:"target_temperature,omitempty"`
	MotionDetection   bool           `json:"motion_detection,omitempty"`
	Config            map[string]any `json:"config,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// DeviceClient talks to the device directory and command endpoints.
type DeviceClient struct {
	baseURL string
	http    *http.Client
	cache   ports.Cache // optional, memoizes listings
	ttl     int         // cache TTL in seconds
}

// NewDeviceClient creates a client with a fixed request timeout. cache may
// be nil to disable listing memoization.
func NewDeviceClient(baseURL string, timeout time.Duration, cache ports.Cache, cacheTTLSeconds int) *DeviceClient {
	return &DeviceClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		ttl:     cacheTTLSeconds,
	}
}

// List fetches the device directory snapshot, optionally filtered by type.
func (c *DeviceClient) List(ctx context.Context, userID, deviceType string) ([]Device, error) {
	cacheKey := fmt.Sprintf("devices:%s:%s", userID, deviceType)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			var devices []Device
			if err := json.Unmarshal(cached, &devices); err == nil {
				return devices, nil
			}
		}
	}

	u := c.baseURL + "/devices"
	if deviceType != "" {
		u += "?type=" + url.QueryEscape(deviceType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build device list request: %w", err)
	}
	req.Header.Set(identityHeader, userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device service returned status %d", resp.StatusCode)
	}

	var payload struct {
		Devices []Device `json:"devices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode device list: %w", err)
	}

	if c.cache != nil {
		if raw, err := json.Marshal(payload.Devices); err == nil {
			_ = c.cache.Set(ctx, cacheKey, raw, c.ttl)
		}
	}

	return payload.Devices, nil
}

// Status fetches the detailed status of a single device.
func (c *DeviceClient) Status(ctx context.Context, userID, deviceID string) (DeviceStatus, error) {
	u := fmt.Sprintf("%s/devices/%s/status", c.baseURL, url.PathEscape(deviceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set(identityHeader, userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("fetch device status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return DeviceStatus{}, fmt.Errorf("device %s not found", deviceID)
	}
	if resp.StatusCode != http.StatusOK {
		return DeviceStatus{}, fmt.Errorf("device service returned status %d", resp.StatusCode)
	}

	var status DeviceStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return DeviceStatus{}, fmt.Errorf("decode device status: %w", err)
	}
	return status, nil
}

// Command sends a device command. Status 200/202 both mean accepted.
func (c *DeviceClient) Command(ctx context.Context, userID, deviceID, command string, payload map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"command": command,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	u := fmt.Sprintf("%s/devices/%s/command", c.baseURL, url.PathEscape(deviceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build command request: %w", err)
	}
	req.Header.Set(identityHeader, userID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("device service returned status %d", resp.StatusCode)
	}
	return nil
}
