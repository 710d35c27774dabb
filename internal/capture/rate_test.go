package capture

import (
	"testing"
	"time"
)

func TestRateController(t *testing.T) {
	r := NewRateController()
	start := time.Unix(1000, 0)

	if r.Active() || r.FPS() != DefaultIdleFPS {
		t.Fatalf("new controller should be idle at %d fps", DefaultIdleFPS)
	}

	active, changed := r.Observe(true, start)
	if !active || !changed {
		t.Fatalf("Observe(motion) = %v, %v, want true, true", active, changed)
	}
	if r.FPS() != DefaultActiveFPS {
		t.Errorf("FPS() = %d, want %d", r.FPS(), DefaultActiveFPS)
	}
	if r.Interval() != time.Second/DefaultActiveFPS {
		t.Errorf("Interval() = %s", r.Interval())
	}

	active, changed = r.Observe(true, start.Add(100*time.Millisecond))
	if !active || changed {
		t.Errorf("repeated motion = %v, %v, want true, false", active, changed)
	}

	// Still within the cooldown.
	active, changed = r.Observe(false, start.Add(2*time.Second))
	if !active || changed {
		t.Errorf("within cooldown = %v, %v, want true, false", active, changed)
	}

	active, changed = r.Observe(false, start.Add(2200*time.Millisecond))
	if active || !changed {
		t.Errorf("after cooldown = %v, %v, want false, true", active, changed)
	}
	if r.Interval() != time.Second/DefaultIdleFPS {
		t.Errorf("Interval() = %s", r.Interval())
	}

	active, changed = r.Observe(false, start.Add(10*time.Second))
	if active || changed {
		t.Errorf("idle without motion = %v, %v, want false, false", active, changed)
	}
}

func TestRateController_ZeroFPS(t *testing.T) {
	r := &RateController{}
	if r.Interval() != time.Second/DefaultIdleFPS {
		t.Errorf("Interval() with zero fps = %s", r.Interval())
	}
}
