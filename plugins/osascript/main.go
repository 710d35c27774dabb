// Package main provides a keyboard plugin for macOS.
// It sends key chords via AppleScript. Only tap_key is supported: the last key
// in the request is typed while the preceding keys are held as modifiers.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Op   string   `json:"op"`
	Keys []string `json:"keys"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// modifierMap maps modifier key names to AppleScript equivalents.
var modifierMap = map[string]string{
	"cmd":     "command down",
	"cmd_l":   "command down",
	"cmd_r":   "command down",
	"alt":     "option down",
	"alt_l":   "option down",
	"alt_r":   "option down",
	"alt_gr":  "option down",
	"ctrl":    "control down",
	"ctrl_l":  "control down",
	"ctrl_r":  "control down",
	"shift":   "shift down",
	"shift_l": "shift down",
	"shift_r": "shift down",
}

// keyCodes maps named keys to macOS virtual key codes.
var keyCodes = map[string]int{
	"enter":     36,
	"tab":       48,
	"space":     49,
	"backspace": 51,
	"esc":       53,
	"delete":    117,
	"home":      115,
	"end":       119,
	"page_up":   116,
	"page_down": 121,
	"left":      123,
	"right":     124,
	"down":      125,
	"up":        126,
	"f1":        122,
	"f2":        120,
	"f3":        99,
	"f4":        118,
	"f5":        96,
	"f6":        97,
	"f7":        98,
	"f8":        100,
	"f9":        101,
	"f10":       109,
	"f11":       103,
	"f12":       111,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Op != "tap_key" {
		writeErrorResponse(fmt.Sprintf("unknown op: %s", req.Op))
		return
	}

	script, err := buildKeystrokeScript(req.Keys)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}
	if err := runAppleScript(script); err != nil {
		writeErrorResponse(fmt.Sprintf("op %s failed: %v", req.Op, err))
		return
	}

	writeSuccessResponse()
}

// buildKeystrokeScript generates an AppleScript that types the last key while
// holding the others.
func buildKeystrokeScript(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("keys are required")
	}

	final := keys[len(keys)-1]
	var stroke string
	if code, ok := keyCodes[strings.ToLower(final)]; ok {
		stroke = fmt.Sprintf("key code %d", code)
	} else if strings.EqualFold(final, "plus") {
		stroke = `keystroke "+"`
	} else {
		stroke = fmt.Sprintf("keystroke %q", final)
	}

	var appleModifiers []string
	for _, mod := range keys[:len(keys)-1] {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to %s`, stroke), nil
	}
	return fmt.Sprintf(`tell application "System Events" to %s using {%s}`, stroke, strings.Join(appleModifiers, ", ")), nil
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
