// Package plugin discovers and runs out-of-process actuator plugins.
package plugin

import "encoding/json"

// Operations a plugin may implement.
const (
	OpPressKeys   = "press_keys"
	OpTapKey      = "tap_key"
	OpReleaseKeys = "release_keys"
	OpMouseDown   = "mouse_down"
	OpMouseUp     = "mouse_up"
	OpMove        = "move"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Ops         []string `json:"ops"`
}

// Supports reports whether the manifest lists op.
func (m Manifest) Supports(op string) bool {
	for _, o := range m.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Request is written to the plugin's stdin as JSON.
type Request struct {
	Op     string   `json:"op"`
	Keys   []string `json:"keys,omitempty"`
	Button string   `json:"button,omitempty"`
	DX     int      `json:"dx,omitempty"`
	DY     int      `json:"dy,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
