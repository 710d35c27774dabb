// Package main provides an actuator plugin for X11 desktops.
// It drives the keyboard and mouse through the xdotool command.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Op     string   `json:"op"`
	Keys   []string `json:"keys"`
	Button string   `json:"button"`
	DX     int      `json:"dx"`
	DY     int      `json:"dy"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// keysyms maps key names to X keysym names.
var keysyms = map[string]string{
	"ctrl":              "ctrl",
	"ctrl_l":            "Control_L",
	"ctrl_r":            "Control_R",
	"alt":               "alt",
	"alt_l":             "Alt_L",
	"alt_r":             "Alt_R",
	"alt_gr":            "ISO_Level3_Shift",
	"shift":             "shift",
	"shift_l":           "Shift_L",
	"shift_r":           "Shift_R",
	"cmd":               "super",
	"cmd_l":             "Super_L",
	"cmd_r":             "Super_R",
	"enter":             "Return",
	"esc":               "Escape",
	"tab":               "Tab",
	"space":             "space",
	"backspace":         "BackSpace",
	"delete":            "Delete",
	"insert":            "Insert",
	"home":              "Home",
	"end":               "End",
	"page_up":           "Prior",
	"page_down":         "Next",
	"up":                "Up",
	"down":              "Down",
	"left":              "Left",
	"right":             "Right",
	"caps_lock":         "Caps_Lock",
	"num_lock":          "Num_Lock",
	"scroll_lock":       "Scroll_Lock",
	"print_screen":      "Print",
	"pause":             "Pause",
	"menu":              "Menu",
	"media_play_pause":  "XF86AudioPlay",
	"media_next":        "XF86AudioNext",
	"media_previous":    "XF86AudioPrev",
	"media_volume_up":   "XF86AudioRaiseVolume",
	"media_volume_down": "XF86AudioLowerVolume",
	"media_volume_mute": "XF86AudioMute",
}

var buttons = map[string]string{
	"left":  "1",
	"right": "3",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	args, err := buildArgs(req)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if err := runXdotool(args); err != nil {
		writeErrorResponse(fmt.Sprintf("op %s failed: %v", req.Op, err))
		return
	}

	writeSuccessResponse()
}

// buildArgs translates a request into xdotool arguments.
func buildArgs(req Request) ([]string, error) {
	switch req.Op {
	case "press_keys", "release_keys", "tap_key":
		if len(req.Keys) == 0 {
			return nil, fmt.Errorf("keys are required")
		}
		verb := map[string]string{
			"press_keys":   "keydown",
			"release_keys": "keyup",
			"tap_key":      "key",
		}[req.Op]
		args := []string{verb}
		for _, k := range req.Keys {
			args = append(args, keysym(k))
		}
		return args, nil

	case "mouse_down", "mouse_up":
		b, ok := buttons[req.Button]
		if !ok {
			return nil, fmt.Errorf("unknown button: %q", req.Button)
		}
		verb := "mousedown"
		if req.Op == "mouse_up" {
			verb = "mouseup"
		}
		return []string{verb, b}, nil

	case "move":
		return []string{"mousemove_relative", "--", strconv.Itoa(req.DX), strconv.Itoa(req.DY)}, nil

	default:
		return nil, fmt.Errorf("unknown op: %s", req.Op)
	}
}

// keysym returns the X keysym for a key name. Single characters are passed through.
func keysym(name string) string {
	if s, ok := keysyms[strings.ToLower(name)]; ok {
		return s
	}
	if strings.HasPrefix(name, "f") && len(name) > 1 {
		if _, err := strconv.Atoi(name[1:]); err == nil {
			return "F" + name[1:]
		}
	}
	return name
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func runXdotool(args []string) error {
	cmd := exec.Command("xdotool", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
