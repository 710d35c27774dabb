// Package config loads the mudra daemon configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/logging"
)

// Actuator kinds.
const (
	ActuatorNative = "native"
	ActuatorDryRun = "dry-run"
	// ActuatorPluginPrefix selects a plugin by name, e.g. "plugin:xdotool".
	ActuatorPluginPrefix = "plugin:"
)

// DefaultDir is the per-user data directory.
const DefaultDir = "~/.mudra"

// Config is the top-level YAML configuration.
type Config struct {
	// Keymap is the JSON profile file.
	Keymap string `yaml:"keymap"`
	// Database is the SQLite file for settings, activity and templates.
	Database string `yaml:"database"`
	// PluginDir is scanned for actuator plugins.
	PluginDir string `yaml:"plugin_dir"`
	// Actuator is "native", "dry-run" or "plugin:<name>".
	Actuator string `yaml:"actuator"`

	Dispatch DispatchConfig `yaml:"dispatch"`
	Camera   CameraConfig   `yaml:"camera"`
	Screen   ScreenConfig   `yaml:"screen"`
	Model    ModelConfig    `yaml:"model"`
	Server   ServerConfig   `yaml:"server"`
	Tray     TrayConfig     `yaml:"tray"`
	Activity ActivityConfig `yaml:"activity"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DispatchConfig struct {
	Threshold          float64 `yaml:"threshold"`
	HistorySize        int     `yaml:"history_size"`
	OriginIsSentinel   bool    `yaml:"origin_is_sentinel"`
	TrackingLossFrames int     `yaml:"tracking_loss_frames"`
	QueueCapacity      int     `yaml:"queue_capacity"`
}

type CameraConfig struct {
	Device          int     `yaml:"device"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Mirror          bool    `yaml:"mirror"`
	IdleFPS         int     `yaml:"idle_fps"`
	ActiveFPS       int     `yaml:"active_fps"`
	CooldownMS      int     `yaml:"cooldown_ms"`
	MotionThreshold float64 `yaml:"motion_threshold"`
}

type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	ActiveArea float64 `yaml:"active_area"`
}

type ModelConfig struct {
	// Script and Python are discovered when empty.
	Script         string  `yaml:"script,omitempty"`
	Python         string  `yaml:"python,omitempty"`
	MaxHands       int     `yaml:"max_hands"`
	MinConfidence  float64 `yaml:"min_confidence"`
	IdleTimeoutSec int     `yaml:"idle_timeout_sec"`
	// Mock replaces the model service with a classifier that never sees a hand.
	Mock bool `yaml:"mock,omitempty"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ActivityConfig struct {
	// Keep bounds the persisted activity log. Zero disables persistence.
	Keep int `yaml:"keep"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	cam := capture.DefaultCameraConfig()
	model := detector.DefaultConfig()
	disp := dispatch.DefaultConfig()

	return Config{
		Keymap:    filepath.Join(DefaultDir, "keymap.json"),
		Database:  filepath.Join(DefaultDir, "mudra.db"),
		PluginDir: filepath.Join(DefaultDir, "plugins"),
		Actuator:  ActuatorNative,
		Dispatch: DispatchConfig{
			Threshold:          disp.Threshold,
			HistorySize:        disp.HistorySize,
			OriginIsSentinel:   disp.OriginIsSentinel,
			TrackingLossFrames: disp.TrackingLossFrames,
			QueueCapacity:      dispatch.DefaultQueueCapacity,
		},
		Camera: CameraConfig{
			Device:          cam.DeviceID,
			Width:           cam.Width,
			Height:          cam.Height,
			Mirror:          cam.Mirror,
			IdleFPS:         capture.DefaultIdleFPS,
			ActiveFPS:       capture.DefaultActiveFPS,
			CooldownMS:      int(capture.DefaultCooldown / time.Millisecond),
			MotionThreshold: 1.0,
		},
		Screen: ScreenConfig{
			Width:      1920,
			Height:     1080,
			ActiveArea: detector.DefaultActiveArea,
		},
		Model: ModelConfig{
			MaxHands:       model.MaxHands,
			MinConfidence:  model.MinConfidence,
			IdleTimeoutSec: int(model.IdleTimeout / time.Second),
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8080",
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Activity: ActivityConfig{
			Keep: 1000,
		},
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
	}
}

// LoadConfigFile loads a YAML config file, applies defaults and validates it.
// A missing file is an error; callers that want defaults should not call this.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	cfg.ExpandPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExpandPaths expands a leading ~ in every path field.
func (c *Config) ExpandPaths() {
	c.Keymap = ExpandPath(c.Keymap)
	c.Database = ExpandPath(c.Database)
	c.PluginDir = ExpandPath(c.PluginDir)
	c.Model.Script = ExpandPath(c.Model.Script)
	c.Model.Python = ExpandPath(c.Model.Python)
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.Keymap == "" {
		return fmt.Errorf("keymap must not be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("database must not be empty")
	}
	if _, err := c.PluginName(); err != nil {
		return err
	}

	if c.Dispatch.Threshold < 0 || c.Dispatch.Threshold > 1 {
		return fmt.Errorf("dispatch.threshold must be in [0, 1], got %v", c.Dispatch.Threshold)
	}
	if c.Dispatch.HistorySize < 2 {
		return fmt.Errorf("dispatch.history_size must be >= 2, got %d", c.Dispatch.HistorySize)
	}
	if c.Dispatch.TrackingLossFrames < 0 {
		return fmt.Errorf("dispatch.tracking_loss_frames must be >= 0")
	}
	if c.Dispatch.QueueCapacity <= 0 {
		return fmt.Errorf("dispatch.queue_capacity must be > 0")
	}

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera.width and camera.height must be > 0")
	}
	if c.Camera.IdleFPS <= 0 || c.Camera.ActiveFPS <= 0 {
		return fmt.Errorf("camera.idle_fps and camera.active_fps must be > 0")
	}
	if c.Camera.ActiveFPS < c.Camera.IdleFPS {
		return fmt.Errorf("camera.active_fps must be >= camera.idle_fps")
	}
	if c.Camera.CooldownMS < 0 {
		return fmt.Errorf("camera.cooldown_ms must be >= 0")
	}
	if c.Camera.MotionThreshold < 0 || c.Camera.MotionThreshold > 100 {
		return fmt.Errorf("camera.motion_threshold must be a percentage in [0, 100]")
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen.width and screen.height must be > 0")
	}
	if c.Screen.ActiveArea <= 0 || c.Screen.ActiveArea > 1 {
		return fmt.Errorf("screen.active_area must be in (0, 1], got %v", c.Screen.ActiveArea)
	}

	if c.Model.MaxHands < 1 {
		return fmt.Errorf("model.max_hands must be >= 1")
	}
	if c.Model.MinConfidence < 0 || c.Model.MinConfidence > 1 {
		return fmt.Errorf("model.min_confidence must be in [0, 1]")
	}
	if c.Model.IdleTimeoutSec < 0 {
		return fmt.Errorf("model.idle_timeout_sec must be >= 0")
	}

	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty when server.enabled is true")
	}
	if c.Activity.Keep < 0 {
		return fmt.Errorf("activity.keep must be >= 0")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// PluginName returns the plugin selected by Actuator, or "" for the built-in
// actuators.
func (c *Config) PluginName() (string, error) {
	switch {
	case c.Actuator == ActuatorNative, c.Actuator == ActuatorDryRun:
		return "", nil
	case strings.HasPrefix(c.Actuator, ActuatorPluginPrefix):
		name := strings.TrimPrefix(c.Actuator, ActuatorPluginPrefix)
		if name == "" {
			return "", fmt.Errorf("actuator %q: missing plugin name", c.Actuator)
		}
		return name, nil
	default:
		return "", fmt.Errorf("actuator must be %q, %q or %q<name>, got %q",
			ActuatorNative, ActuatorDryRun, ActuatorPluginPrefix, c.Actuator)
	}
}

// DispatchEngine converts the dispatch section to engine settings.
func (c *Config) DispatchEngine() dispatch.Config {
	return dispatch.Config{
		Threshold:          c.Dispatch.Threshold,
		HistorySize:        c.Dispatch.HistorySize,
		OriginIsSentinel:   c.Dispatch.OriginIsSentinel,
		TrackingLossFrames: c.Dispatch.TrackingLossFrames,
	}
}

// CameraDevice converts the camera section to capture settings.
func (c *Config) CameraDevice() capture.CameraConfig {
	return capture.CameraConfig{
		DeviceID: c.Camera.Device,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.IdleFPS,
		Mirror:   c.Camera.Mirror,
	}
}

// RateController builds the idle/active frame rate controller.
func (c *Config) RateController() *capture.RateController {
	return &capture.RateController{
		IdleFPS:   c.Camera.IdleFPS,
		ActiveFPS: c.Camera.ActiveFPS,
		Cooldown:  time.Duration(c.Camera.CooldownMS) * time.Millisecond,
	}
}

// ModelService converts the model section to classifier settings.
func (c *Config) ModelService() detector.Config {
	return detector.Config{
		Script:        c.Model.Script,
		Python:        c.Model.Python,
		MaxHands:      c.Model.MaxHands,
		MinConfidence: c.Model.MinConfidence,
		IdleTimeout:   time.Duration(c.Model.IdleTimeoutSec) * time.Second,
	}
}

// FlagOverrides contains values from CLI flags that should override config
// values. Pointers distinguish "not set" from zero values.
type FlagOverrides struct {
	LogLevel *string
	Keymap   *string
	Addr     *string
	Actuator *string
	NoTray   *bool
	NoServer *bool
}

// Apply applies overrides to cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.Keymap != nil {
		cfg.Keymap = ExpandPath(*o.Keymap)
	}
	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
		cfg.Server.Enabled = true
	}
	if o.Actuator != nil {
		cfg.Actuator = *o.Actuator
	}
	if o.NoTray != nil && *o.NoTray {
		cfg.Tray.Enabled = false
	}
	if o.NoServer != nil && *o.NoServer {
		cfg.Server.Enabled = false
	}
}

// ExpandPath expands a leading "~" or "~/" to the user's home directory.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
