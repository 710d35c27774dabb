package actuator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ayusman/mudra/internal/action"
)

// Call is a single recorded actuator invocation.
type Call struct {
	Op     string
	Keys   []action.Key
	Button action.Button
	DX, DY int
}

// String renders the call compactly, e.g. "press(ctrl)", "tap(c)", "down(left)", "move(3,-2)".
func (c Call) String() string {
	switch c.Op {
	case "press", "release", "tap":
		names := make([]string, len(c.Keys))
		for i, k := range c.Keys {
			names[i] = k.String()
		}
		return fmt.Sprintf("%s(%s)", c.Op, strings.Join(names, "+"))
	case "down", "up":
		return fmt.Sprintf("%s(%s)", c.Op, c.Button)
	case "move":
		return fmt.Sprintf("move(%d,%d)", c.DX, c.DY)
	default:
		return c.Op
	}
}

// Recorder is an in-memory Actuator that records every call. Failures can be
// injected per operation.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	fail  map[string]error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[string]error)}
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
// Ops are "press", "tap", "release", "down", "up" and "move".
func (r *Recorder) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, op)
		return
	}
	r.fail[op] = err
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Trace returns the recorded calls as strings.
func (r *Recorder) Trace() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Reset clears recorded calls. Injected failures are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.fail[c.Op]
}

func copyKeys(keys []action.Key) []action.Key {
	out := make([]action.Key, len(keys))
	copy(out, keys)
	return out
}

// PressKeys implements Actuator.
func (r *Recorder) PressKeys(keys []action.Key) error {
	return r.record(Call{Op: "press", Keys: copyKeys(keys)})
}

// TapKey implements Actuator.
func (r *Recorder) TapKey(key action.Key) error {
	return r.record(Call{Op: "tap", Keys: []action.Key{key}})
}

// ReleaseKeys implements Actuator.
func (r *Recorder) ReleaseKeys(keys []action.Key) error {
	return r.record(Call{Op: "release", Keys: copyKeys(keys)})
}

// MouseDown implements Actuator.
func (r *Recorder) MouseDown(button action.Button) error {
	return r.record(Call{Op: "down", Button: button})
}

// MouseUp implements Actuator.
func (r *Recorder) MouseUp(button action.Button) error {
	return r.record(Call{Op: "up", Button: button})
}

// MoveRelative implements Actuator.
func (r *Recorder) MoveRelative(dx, dy int) error {
	return r.record(Call{Op: "move", DX: dx, DY: dy})
}
