package dispatch

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/actuator"
)

// DefaultThreshold is the minimum confidence for a sample to be acted on.
const DefaultThreshold = 0.6

// Config tunes the engine.
type Config struct {
	// Threshold gates samples: confidence below it is treated like a lost hand
	// for history purposes and otherwise ignored.
	Threshold float64
	// HistorySize bounds the fingertip history.
	HistorySize int
	// OriginIsSentinel treats a fingertip at (0,0) as missing.
	OriginIsSentinel bool
	// TrackingLossFrames releases held buttons and forgets the previous
	// gesture after this many consecutive frames without a hand.
	// Zero keeps the previous gesture indefinitely.
	TrackingLossFrames int
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:        DefaultThreshold,
		HistorySize:      DefaultHistorySize,
		OriginIsSentinel: true,
	}
}

// Resolver maps a gesture label to its bound action.
type Resolver interface {
	Resolve(label string) action.Action
}

// Engine is the per-frame dispatch state machine. Key combos fire once when
// their gesture is entered, mouse buttons are held for the duration of their
// gesture, and pointer motion follows the fingertip.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	resolver Resolver
	act      actuator.Actuator
	logger   *slog.Logger

	history   *History
	prevLabel string
	hasPrev   bool
	held      []action.Button
	missed    int

	observers []func(Effect)
}

// NewEngine creates an engine. A zero Threshold or HistorySize in cfg is
// replaced by the default.
func NewEngine(cfg Config, resolver Resolver, act actuator.Actuator, logger *slog.Logger) *Engine {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		act:      act,
		logger:   logger,
		history:  NewHistory(cfg.HistorySize, cfg.OriginIsSentinel),
	}
}

// OnEffect registers fn to receive every emitted effect. fn runs on the
// dispatch goroutine with the engine locked; it must not block or call back
// into the engine.
func (e *Engine) OnEffect(fn func(Effect)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Process handles one sample. Actuator failures are returned joined but do
// not interrupt the frame.
func (e *Engine) Process(s Sample) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.Lost() {
		e.history.PushEmpty()
		return e.lostFrame()
	}
	e.missed = 0

	// Written so a NaN confidence is gated out.
	if !(s.Confidence >= e.cfg.Threshold) {
		e.history.PushEmpty()
		return nil
	}

	var errs []error
	label := s.Label
	a := e.resolver.Resolve(label)
	if a == nil {
		a = action.NoAction{}
	}
	edge := !e.hasPrev || label != e.prevLabel

	if edge {
		e.logger.Debug("gesture changed", "from", e.prevLabel, "to", label, "action", a.String())
		errs = append(errs, e.releaseHeld(label)...)
		if b, ok := action.HeldButton(a); ok {
			if err := e.press(b, label); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if s.Fingertip != nil {
		e.history.Push(*s.Fingertip)
	} else {
		e.history.PushEmpty()
	}

	if combo, ok := a.(action.KeyCombo); ok && edge {
		errs = append(errs, e.tap(combo, label)...)
	}

	if action.IsMotionCapable(a) {
		if prev, last, ok := e.history.LastTwoValid(); ok {
			if err := e.move(last.Sub(prev), label); err != nil {
				errs = append(errs, err)
			}
		}
	}

	e.prevLabel = label
	e.hasPrev = true
	return errors.Join(errs...)
}

// Reset releases held buttons and forgets the previous gesture, so the next
// detected gesture is treated as newly entered. History is kept.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.prevLabel = ""
	e.hasPrev = false
	e.missed = 0
	return errors.Join(e.releaseHeld("")...)
}

// ReleaseAll releases any held mouse button.
func (e *Engine) ReleaseAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.releaseHeld("")...)
}

// Threshold returns the confidence gate.
func (e *Engine) Threshold() float64 {
	return e.cfg.Threshold
}

// Held returns the buttons currently held down.
func (e *Engine) Held() []action.Button {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]action.Button, len(e.held))
	copy(out, e.held)
	return out
}

// PreviousLabel returns the last gesture acted on, if any.
func (e *Engine) PreviousLabel() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevLabel, e.hasPrev
}

// History returns a snapshot of the fingertip history, oldest first.
func (e *Engine) History() []Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Points()
}

func (e *Engine) lostFrame() error {
	if e.cfg.TrackingLossFrames <= 0 {
		return nil
	}
	e.missed++
	if e.missed < e.cfg.TrackingLossFrames {
		return nil
	}
	if e.hasPrev {
		e.logger.Debug("hand lost, resetting gesture", "previous", e.prevLabel, "frames", e.missed)
	}
	e.prevLabel = ""
	e.hasPrev = false
	return errors.Join(e.releaseHeld("")...)
}

func (e *Engine) isHeld(b action.Button) bool {
	for _, h := range e.held {
		if h == b {
			return true
		}
	}
	return false
}

// press marks b as held before calling the actuator and rolls back on failure.
func (e *Engine) press(b action.Button, label string) error {
	if e.isHeld(b) {
		return nil
	}
	e.held = append(e.held, b)

	err := e.act.MouseDown(b)
	e.emit(Effect{Kind: EffectMouseDown, Label: label, Button: b, Err: err})
	if err != nil {
		e.held = e.held[:len(e.held)-1]
		return &ActuationError{Op: string(EffectMouseDown), Label: label, Err: err}
	}
	return nil
}

// releaseHeld releases every held button. Buttons whose release fails stay
// held and are retried on the next edge or shutdown.
func (e *Engine) releaseHeld(label string) []error {
	if len(e.held) == 0 {
		return nil
	}

	var errs []error
	remaining := e.held[:0]
	for _, b := range e.held {
		err := e.act.MouseUp(b)
		e.emit(Effect{Kind: EffectMouseUp, Label: label, Button: b, Err: err})
		if err != nil {
			remaining = append(remaining, b)
			errs = append(errs, &ActuationError{Op: string(EffectMouseUp), Label: label, Err: err})
		}
	}
	e.held = remaining
	return errs
}

// tap presses the combo's modifiers, taps its final key and releases the
// modifiers. The final key is not tapped if the modifiers could not be
// pressed; modifiers are always released.
func (e *Engine) tap(combo action.KeyCombo, label string) []error {
	final, ok := combo.Final()
	if !ok {
		return nil
	}
	mods := combo.Modifiers()

	var errs []error
	pressed := true
	if len(mods) > 0 {
		err := e.act.PressKeys(mods)
		e.emit(Effect{Kind: EffectPressKeys, Label: label, Keys: mods, Err: err})
		if err != nil {
			pressed = false
			errs = append(errs, &ActuationError{Op: string(EffectPressKeys), Label: label, Err: err})
		}
	}

	if pressed {
		err := e.act.TapKey(final)
		e.emit(Effect{Kind: EffectTapKey, Label: label, Keys: []action.Key{final}, Err: err})
		if err != nil {
			errs = append(errs, &ActuationError{Op: string(EffectTapKey), Label: label, Err: err})
		}
	}

	if len(mods) > 0 {
		err := e.act.ReleaseKeys(mods)
		e.emit(Effect{Kind: EffectReleaseKeys, Label: label, Keys: mods, Err: err})
		if err != nil {
			errs = append(errs, &ActuationError{Op: string(EffectReleaseKeys), Label: label, Err: err})
		}
	}

	return errs
}

func (e *Engine) move(d Point, label string) error {
	err := e.act.MoveRelative(d.X, d.Y)
	e.emit(Effect{Kind: EffectMove, Label: label, DX: d.X, DY: d.Y, Err: err})
	if err != nil {
		return &ActuationError{Op: string(EffectMove), Label: label, Err: err}
	}
	return nil
}

func (e *Engine) emit(ef Effect) {
	if len(e.observers) == 0 {
		return
	}
	ef.At = time.Now()
	if p, ok := e.resolver.(interface{ Active() string }); ok {
		ef.Profile = p.Active()
	}
	for _, fn := range e.observers {
		fn(ef)
	}
}
