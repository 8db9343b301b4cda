package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeguard/agentic-ai/agentic/assistant/adapters"
)

func TestDeviceListFiltersAndForwardsIdentity(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/devices", r.URL.Path)
		assert.Equal(t, "light", r.URL.Query().Get("type"))
		assert.Equal(t, "u1", r.Header.Get("X-User-ID"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"devices": []Device{{ID: "d1", Name: "Desk Lamp", Type: TypeLight, Online: true}},
		})
	}))
	defer server.Close()

	client := NewDeviceClient(server.URL, time.Second, nil, 0)
	devices, err := client.List(context.Background(), "u1", "light")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Desk Lamp", devices[0].Name)
	assert.Equal(t, 1, hits)
}

func TestDeviceListMemoizes(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"devices": []Device{{ID: "d1", Name: "Desk Lamp", Type: TypeLight}},
		})
	}))
	defer server.Close()

	client := NewDeviceClient(server.URL, time.Second, adapters.NewLRUCache(8), 60)

	for i := 0; i < 3; i++ {
		devices, err := client.List(context.Background(), "u1", "")
		require.NoError(t, err)
		require.Len(t, devices, 1)
	}
	assert.Equal(t, 1, hits, "repeat listings must be served from cache")
}

func TestDeviceStatusNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewDeviceClient(server.URL, time.Second, nil, 0)
	_, err := client.Status(context.Background(), "u1", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device ghost not found")
}

func TestDeviceStatusDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices/d1/status", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"device_id": "d1", "name": "Desk Lamp", "type": "light",
			"online": true, "state": "on", "brightness": 80,
			"location": "Office", "config": {"power_on": true}
		}`))
	}))
	defer server.Close()

	client := NewDeviceClient(server.URL, time.Second, nil, 0)
	status, err := client.Status(context.Background(), "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "on", status.State)
	require.NotNil(t, status.Brightness)
	assert.Equal(t, 80, *status.Brightness)
	assert.Equal(t, true, status.Config["power_on"])
}

func TestDeviceCommandAcceptsAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/devices/d1/command", r.URL.Path)

		var body struct {
			Command string         `json:"command"`
			Payload map[string]any `json:"payload"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "set_temperature", body.Command)
		assert.Equal(t, float64(72), body.Payload["temperature"])

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewDeviceClient(server.URL, time.Second, nil, 0)
	err := client.Command(context.Background(), "u1", "d1", "set_temperature", map[string]any{"temperature": 72})
	assert.NoError(t, err)
}

func TestDeviceCommandRejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewDeviceClient(server.URL, time.Second, nil, 0)
	err := client.Command(context.Background(), "u1", "d1", "turn_on", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
