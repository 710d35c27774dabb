package actuator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/plugin"
)

// ErrUnsupportedOp is returned when the plugin does not implement an operation.
var ErrUnsupportedOp = errors.New("operation not supported by plugin")

// Breaker settings: after breakerTrips consecutive failures the plugin is not
// run for breakerCooldown.
const (
	breakerTrips    = 5
	breakerCooldown = 5 * time.Second
)

// Plugin forwards actuation to an out-of-process plugin.
//
// Plugins that implement tap_key but not press_keys still support combos:
// pressed keys are remembered and sent as leading keys of the next tap.
//
// Calls go through a circuit breaker so a broken plugin is not spawned on
// every frame; while open, calls fail with gobreaker.ErrOpenState.
type Plugin struct {
	executor *plugin.Executor
	plugin   *plugin.Plugin
	ctx      context.Context
	breaker  *gobreaker.CircuitBreaker[*plugin.Response]

	mu      sync.Mutex
	pending []action.Key
}

// NewPlugin creates an actuator backed by p. ctx bounds every call.
func NewPlugin(ctx context.Context, executor *plugin.Executor, p *plugin.Plugin) *Plugin {
	return &Plugin{
		executor: executor,
		plugin:   p,
		ctx:      ctx,
		breaker: gobreaker.NewCircuitBreaker[*plugin.Response](gobreaker.Settings{
			Name:    p.Manifest.Name,
			Timeout: breakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerTrips
			},
		}),
	}
}

func (a *Plugin) call(req *plugin.Request) error {
	if !a.plugin.Manifest.Supports(req.Op) {
		return fmt.Errorf("%w: %s", ErrUnsupportedOp, req.Op)
	}
	_, err := a.breaker.Execute(func() (*plugin.Response, error) {
		resp, err := a.executor.Execute(a.ctx, a.plugin, req)
		if err != nil {
			return nil, err
		}
		if !resp.Success {
			return resp, fmt.Errorf("plugin %s: %s", a.plugin.Manifest.Name, resp.Error)
		}
		return resp, nil
	})
	return err
}

func keyNames(keys []action.Key) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}

func (a *Plugin) chords() bool {
	m := a.plugin.Manifest
	return !m.Supports(plugin.OpPressKeys) && m.Supports(plugin.OpTapKey)
}

// PressKeys implements Actuator.
func (a *Plugin) PressKeys(keys []action.Key) error {
	if a.chords() {
		a.mu.Lock()
		a.pending = append(a.pending, keys...)
		a.mu.Unlock()
		return nil
	}
	return a.call(&plugin.Request{Op: plugin.OpPressKeys, Keys: keyNames(keys)})
}

// TapKey implements Actuator.
func (a *Plugin) TapKey(key action.Key) error {
	keys := []action.Key{key}
	if a.chords() {
		a.mu.Lock()
		keys = append(append([]action.Key{}, a.pending...), key)
		a.mu.Unlock()
	}
	return a.call(&plugin.Request{Op: plugin.OpTapKey, Keys: keyNames(keys)})
}

// ReleaseKeys implements Actuator.
func (a *Plugin) ReleaseKeys(keys []action.Key) error {
	if a.chords() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for _, k := range keys {
			for i := len(a.pending) - 1; i >= 0; i-- {
				if a.pending[i] == k {
					a.pending = append(a.pending[:i], a.pending[i+1:]...)
					break
				}
			}
		}
		return nil
	}
	return a.call(&plugin.Request{Op: plugin.OpReleaseKeys, Keys: keyNames(keys)})
}

// MouseDown implements Actuator.
func (a *Plugin) MouseDown(button action.Button) error {
	return a.call(&plugin.Request{Op: plugin.OpMouseDown, Button: button.String()})
}

// MouseUp implements Actuator.
func (a *Plugin) MouseUp(button action.Button) error {
	return a.call(&plugin.Request{Op: plugin.OpMouseUp, Button: button.String()})
}

// MoveRelative implements Actuator.
func (a *Plugin) MoveRelative(dx, dy int) error {
	return a.call(&plugin.Request{Op: plugin.OpMove, DX: dx, DY: dy})
}
