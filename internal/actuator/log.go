package actuator

import (
	"log/slog"
	"strings"

	"github.com/ayusman/mudra/internal/action"
)

// Logger is a dry-run Actuator that only logs what it would do.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a dry-run actuator. A nil logger uses slog.Default.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With("actuator", "dry-run")}
}

func joinKeys(keys []action.Key) string {
	return strings.Join(keyNames(keys), "+")
}

// PressKeys implements Actuator.
func (l *Logger) PressKeys(keys []action.Key) error {
	l.logger.Info("press keys", "keys", joinKeys(keys))
	return nil
}

// TapKey implements Actuator.
func (l *Logger) TapKey(key action.Key) error {
	l.logger.Info("tap key", "key", key.String())
	return nil
}

// ReleaseKeys implements Actuator.
func (l *Logger) ReleaseKeys(keys []action.Key) error {
	l.logger.Info("release keys", "keys", joinKeys(keys))
	return nil
}

// MouseDown implements Actuator.
func (l *Logger) MouseDown(button action.Button) error {
	l.logger.Info("mouse down", "button", button.String())
	return nil
}

// MouseUp implements Actuator.
func (l *Logger) MouseUp(button action.Button) error {
	l.logger.Info("mouse up", "button", button.String())
	return nil
}

// MoveRelative implements Actuator.
func (l *Logger) MoveRelative(dx, dy int) error {
	l.logger.Debug("move", "dx", dx, "dy", dy)
	return nil
}
