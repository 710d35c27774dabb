package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Dispatch.Threshold != 0.6 {
		t.Errorf("Dispatch.Threshold = %v, want 0.6", cfg.Dispatch.Threshold)
	}
	if !cfg.Dispatch.OriginIsSentinel {
		t.Error("Dispatch.OriginIsSentinel should default to true")
	}
	if cfg.Actuator != ActuatorNative {
		t.Errorf("Actuator = %q, want %q", cfg.Actuator, ActuatorNative)
	}
}

func TestLoadConfigFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
actuator: plugin:xdotool
dispatch:
  threshold: 0.75
  tracking_loss_frames: 10
camera:
  device: 2
  mirror: false
screen:
  width: 2560
  height: 1440
logging:
  level: debug
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	if cfg.Dispatch.Threshold != 0.75 {
		t.Errorf("Dispatch.Threshold = %v, want 0.75", cfg.Dispatch.Threshold)
	}
	if cfg.Dispatch.HistorySize != DefaultConfig().Dispatch.HistorySize {
		t.Errorf("Dispatch.HistorySize = %d, want default", cfg.Dispatch.HistorySize)
	}
	if cfg.Camera.Device != 2 || cfg.Camera.Mirror {
		t.Errorf("Camera = %+v, want device 2 without mirror", cfg.Camera)
	}
	if cfg.Screen.Width != 2560 || cfg.Screen.Height != 1440 {
		t.Errorf("Screen = %+v", cfg.Screen)
	}

	name, err := cfg.PluginName()
	if err != nil || name != "xdotool" {
		t.Errorf("PluginName() = %q, %v; want xdotool", name, err)
	}

	engine := cfg.DispatchEngine()
	if engine.TrackingLossFrames != 10 || engine.Threshold != 0.75 {
		t.Errorf("DispatchEngine() = %+v", engine)
	}
}

func TestLoadConfigFile_Empty(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadConfigFile_UnknownField(t *testing.T) {
	path := writeConfig(t, "dispatch:\n  treshold: 0.5\n")

	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadConfigFile_TrailingDocument(t *testing.T) {
	path := writeConfig(t, "actuator: native\n---\nactuator: dry-run\n")

	_, err := LoadConfigFile(path)
	if err == nil || !strings.Contains(err.Error(), "trailing document") {
		t.Fatalf("LoadConfigFile() error = %v, want trailing document error", err)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold", func(c *Config) { c.Dispatch.Threshold = 1.5 }, "dispatch.threshold"},
		{"history", func(c *Config) { c.Dispatch.HistorySize = 1 }, "dispatch.history_size"},
		{"queue", func(c *Config) { c.Dispatch.QueueCapacity = 0 }, "dispatch.queue_capacity"},
		{"fps order", func(c *Config) { c.Camera.ActiveFPS = 1 }, "camera.active_fps"},
		{"screen", func(c *Config) { c.Screen.Width = 0 }, "screen.width"},
		{"area", func(c *Config) { c.Screen.ActiveArea = 0 }, "screen.active_area"},
		{"actuator", func(c *Config) { c.Actuator = "uinput" }, "actuator"},
		{"plugin name", func(c *Config) { c.Actuator = "plugin:" }, "missing plugin name"},
		{"addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Enabled = false

	level := "debug"
	addr := ":9000"
	act := ActuatorDryRun
	noTray := true
	FlagOverrides{
		LogLevel: &level,
		Addr:     &addr,
		Actuator: &act,
		NoTray:   &noTray,
	}.Apply(&cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if !cfg.Server.Enabled || cfg.Server.Addr != ":9000" {
		t.Errorf("Server = %+v, want enabled on :9000", cfg.Server)
	}
	if cfg.Actuator != ActuatorDryRun {
		t.Errorf("Actuator = %q", cfg.Actuator)
	}
	if cfg.Tray.Enabled {
		t.Error("Tray should be disabled")
	}

	// Unset overrides leave the config alone.
	before := cfg
	FlagOverrides{}.Apply(&cfg)
	if cfg.Keymap != before.Keymap || cfg.Actuator != before.Actuator {
		t.Error("empty overrides changed config")
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.CooldownMS = 500
	cfg.Model.IdleTimeoutSec = 7

	rc := cfg.RateController()
	if rc.Cooldown != 500*time.Millisecond || rc.IdleFPS != cfg.Camera.IdleFPS {
		t.Errorf("RateController() = %+v", rc)
	}
	if got := cfg.ModelService().IdleTimeout; got != 7*time.Second {
		t.Errorf("ModelService().IdleTimeout = %v", got)
	}
	if got := cfg.CameraDevice(); got.Width != cfg.Camera.Width || got.Mirror != cfg.Camera.Mirror {
		t.Errorf("CameraDevice() = %+v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"~", home},
		{"~/x/y", filepath.Join(home, "x/y")},
		{"~other", "~other"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
