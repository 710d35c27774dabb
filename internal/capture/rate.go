package capture

import "time"

// Frame rate defaults.
const (
	// DefaultIdleFPS is the frame rate when no motion is detected.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate while the hand is moving.
	DefaultActiveFPS = 15
	// DefaultCooldown is how long without motion before returning to idle.
	DefaultCooldown = 2 * time.Second
)

// RateController switches between an idle and an active frame rate based on
// motion. It is not safe for concurrent use.
type RateController struct {
	IdleFPS   int
	ActiveFPS int
	Cooldown  time.Duration

	active     bool
	lastMotion time.Time
}

// NewRateController creates a controller with the default rates.
func NewRateController() *RateController {
	return &RateController{
		IdleFPS:   DefaultIdleFPS,
		ActiveFPS: DefaultActiveFPS,
		Cooldown:  DefaultCooldown,
	}
}

// Observe records whether the frame at now had motion. It returns whether the
// controller is active and whether that state just changed.
func (r *RateController) Observe(motion bool, now time.Time) (active, changed bool) {
	if motion {
		r.lastMotion = now
		if !r.active {
			r.active = true
			return true, true
		}
		return true, false
	}

	if r.active && now.Sub(r.lastMotion) > r.Cooldown {
		r.active = false
		return false, true
	}
	return r.active, false
}

// Reset returns the controller to idle.
func (r *RateController) Reset() {
	r.active = false
	r.lastMotion = time.Time{}
}

// Active reports whether the controller is in active mode.
func (r *RateController) Active() bool {
	return r.active
}

// FPS returns the frame rate for the current mode.
func (r *RateController) FPS() int {
	if r.active {
		return r.ActiveFPS
	}
	return r.IdleFPS
}

// Interval returns the frame interval for the current mode.
func (r *RateController) Interval() time.Duration {
	fps := r.FPS()
	if fps <= 0 {
		fps = DefaultIdleFPS
	}
	return time.Second / time.Duration(fps)
}
