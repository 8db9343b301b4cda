// Package format renders tool-execution results into stable, human-readable
// text. Every function is pure and deterministic so rendering is identical
// whether a plan came from local rules or the remote planner.
package format

import (
	"fmt"
	"strings"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
	"github.com/homeguard/agentic-ai/agentic/assistant/tools"
	"github.com/homeguard/agentic-ai/agentic/clients"
)

// NoDevices is returned when the device directory is empty.
const NoDevices = "You don't have any devices registered yet."

// Fallback is rendered when there are no actions to report.
const Fallback = "I'm not sure how to help with that. Try asking about your devices or their status."

// DeviceList renders the directory snapshot as a bulleted list with an
// online/offline glyph per device.
func DeviceList(result tools.DeviceListResult) string {
	if len(result.Devices) == 0 {
		return NoDevices
	}

	lines := []string{fmt.Sprintf("You have %d device(s):\n", len(result.Devices))}
	for _, d := range result.Devices {
		status := "🔴 offline"
		if d.Online {
			status = "🟢 online"
		}
		lines = append(lines, fmt.Sprintf("• **%s** (%s) - %s", d.Name, d.Type, status))
	}
	return strings.Join(lines, "\n")
}

// AllStatuses renders the bulk status, grouped by location in
// first-appearance order with type-specific one-line summaries.
func AllStatuses(result tools.StatusesResult) string {
	if len(result.Statuses) == 0 {
		return "No devices found."
	}

	locations := make([]string, 0, 4)
	byLocation := make(map[string][]clients.DeviceStatus)
	for _, s := range result.Statuses {
		loc := s.Location
		if loc == "" {
			loc = "Other"
		}
		if _, seen := byLocation[loc]; !seen {
			locations = append(locations, loc)
		}
		byLocation[loc] = append(byLocation[loc], s)
	}

	lines := []string{"Here's the status of all your devices:\n"}
	for _, loc := range locations {
		lines = append(lines, fmt.Sprintf("**%s**", loc))
		for _, d := range byLocation[loc] {
			lines = append(lines, statusLine(d))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func statusLine(d clients.DeviceStatus) string {
	name := d.Name
	if name == "" {
		name = "Unknown"
	}

	switch d.Type {
	case clients.TypeLight:
		if d.State == "on" {
			extra := ""
			if d.Brightness != nil && *d.Brightness > 0 {
				extra = fmt.Sprintf(", brightness %d%%", *d.Brightness)
			}
			return fmt.Sprintf("  • %s: 💡 On%s", name, extra)
		}
		return fmt.Sprintf("  • %s: Off", name)
	case clients.TypeThermostat:
		temp := "?"
		if d.TargetTemperature != nil {
			temp = fmt.Sprintf("%d", *d.TargetTemperature)
		} else if t, ok := configInt(d.Config, "target_temp"); ok {
			temp = fmt.Sprintf("%d", t)
		}
		return fmt.Sprintf("  • %s: 🌡️ %s°F", name, temp)
	case clients.TypeSmartLock:
		if d.State == "locked" {
			return fmt.Sprintf("  • %s: 🔒 Locked", name)
		}
		return fmt.Sprintf("  • %s: 🔓 Unlocked", name)
	case clients.TypeCamera:
		if d.MotionDetection {
			return fmt.Sprintf("  • %s: 📷 Active, motion detection on", name)
		}
		return fmt.Sprintf("  • %s: 📷 Active", name)
	case clients.TypeDoorSensor:
		if d.Online {
			return fmt.Sprintf("  • %s: 🟢", name)
		}
		return fmt.Sprintf("  • %s: 🔴 offline", name)
	default:
		state := d.State
		if state == "" {
			state = d.Status
		}
		if state == "" {
			state = "unknown"
		}
		return fmt.Sprintf("  • %s: %s", name, state)
	}
}

// SingleStatus renders one device as a multi-line card with state, optional
// brightness, and location. Status config overlays the directory config.
func SingleStatus(device clients.Device, status clients.DeviceStatus) string {
	cfg := make(map[string]any, len(device.Config)+len(status.Config))
	for k, v := range device.Config {
		cfg[k] = v
	}
	for k, v := range status.Config {
		cfg[k] = v
	}

	name := device.Name
	if name == "" {
		name = "Unknown"
	}

	lines := []string{fmt.Sprintf("**%s** status:\n", name)}

	switch device.Type {
	case clients.TypeSmartLock:
		if b, _ := configBool(cfg, "locked"); b {
			lines = append(lines, "State: 🔒 Locked")
		} else {
			lines = append(lines, "State: 🔓 Unlocked")
		}
	case clients.TypeLight:
		if b, _ := configBool(cfg, "power_on"); b {
			lines = append(lines, "State: 💡 On")
		} else {
			lines = append(lines, "State: Off")
		}
		if brightness, ok := configInt(cfg, "brightness"); ok && brightness > 0 {
			lines = append(lines, fmt.Sprintf("Brightness: %d%%", brightness))
		}
	case clients.TypeThermostat:
		temp := "?"
		if t, ok := configInt(cfg, "target_temp"); ok {
			temp = fmt.Sprintf("%d", t)
		}
		lines = append(lines, fmt.Sprintf("🌡️ Target temperature: %s°F", temp))
	case clients.TypeCamera:
		lines = append(lines, "📷 Camera is active")
	case clients.TypeDoorSensor:
		lines = append(lines, "🚪 Door sensor monitoring")
	default:
		state := device.Status
		if state == "" {
			state = "unknown"
		}
		lines = append(lines, fmt.Sprintf("Status: %s", state))
	}

	if device.Location != "" {
		lines = append(lines, fmt.Sprintf("Location: %s", device.Location))
	}

	return strings.Join(lines, "\n")
}

// Analytics renders the usage summary block plus up to the top 3 most
// active devices, in the order the upstream ranking provided.
func Analytics(summary clients.AnalyticsSummary) string {
	period := summary.Period
	if period == "" {
		period = "day"
	}
	energy := summary.Summary.EnergyUsage
	if energy == "" {
		energy = "N/A"
	}

	lines := []string{
		fmt.Sprintf("**Activity Summary** (%s)\n", period),
		fmt.Sprintf("• Total events: %d", summary.Summary.TotalEvents),
		fmt.Sprintf("• Active devices: %d", summary.Summary.ActiveDevices),
		fmt.Sprintf("• Alerts: %d", summary.Summary.Alerts),
		fmt.Sprintf("• Energy usage: %s", energy),
	}

	if len(summary.TopDevices) > 0 {
		lines = append(lines, "\n**Most Active Devices:**")
		top := summary.TopDevices
		if len(top) > 3 {
			top = top[:3]
		}
		for _, d := range top {
			lines = append(lines, fmt.Sprintf("  • %s: %d events", d.Name, d.Events))
		}
	}

	return strings.Join(lines, "\n")
}

// Actions synthesizes response text from executed actions, concatenating
// per-tool fragments in execution order separated by blank lines.
func Actions(records []ports.ActionRecord) string {
	if len(records) == 0 {
		return Fallback
	}

	var fragments []string
	for _, record := range records {
		switch record.Tool {
		case "list_devices":
			if result, ok := record.Result.(tools.DeviceListResult); ok {
				fragments = append(fragments, DeviceList(result))
			}
		case "get_all_device_statuses":
			if result, ok := record.Result.(tools.StatusesResult); ok {
				fragments = append(fragments, AllStatuses(result))
			}
		case "get_device_status":
			name, state := "Device", "unknown"
			if status, ok := record.Result.(clients.DeviceStatus); ok {
				if status.Name != "" {
					name = status.Name
				}
				if status.State != "" {
					state = status.State
				} else if status.Status != "" {
					state = status.Status
				}
			}
			fragments = append(fragments, fmt.Sprintf("**%s**: %s", name, state))
		case "send_device_command":
			if result, ok := record.Result.(tools.CommandResult); ok {
				if result.Success {
					fragments = append(fragments, fmt.Sprintf("✓ Command '%s' executed successfully.", result.Command))
				} else {
					errText := result.Error
					if errText == "" {
						errText = "Unknown error"
					}
					fragments = append(fragments, fmt.Sprintf("⚠️ Command failed: %s", errText))
				}
			}
		case "get_analytics":
			if summary, ok := record.Result.(clients.AnalyticsSummary); ok {
				fragments = append(fragments, Analytics(summary))
			}
		case "create_automation":
			if result, ok := record.Result.(tools.AutomationResult); ok {
				if result.Success {
					name := result.Name
					if name == "" {
						name = "New automation"
					}
					fragments = append(fragments, fmt.Sprintf("✓ Automation created: %s", name))
				} else {
					fragments = append(fragments, "⚠️ Failed to create automation")
				}
			}
		}
	}

	if len(fragments) == 0 {
		return "Done!"
	}
	return strings.Join(fragments, "\n\n")
}

func configBool(cfg map[string]any, key string) (bool, bool) {
	if v, ok := cfg[key].(bool); ok {
		return v, true
	}
	return false, false
}

func configInt(cfg map[string]any, key string) (int, bool) {
	switch v := cfg[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
