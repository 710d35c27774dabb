package profile

import (
	"sync"
	"testing"

	"github.com/ayusman/mudra/internal/action"
)

func TestNewStore(t *testing.T) {
	s := NewStore()

	if got := s.Active(); got != DefaultName {
		t.Errorf("Active() = %q, want %q", got, DefaultName)
	}

	names := s.Names()
	if len(names) != 1 || names[0] != DefaultName {
		t.Errorf("Names() = %v, want [%s]", names, DefaultName)
	}
}

func TestStore_ResolveUnbound(t *testing.T) {
	s := NewStore()

	if got := s.Resolve("palm"); !action.Equal(got, action.NoAction{}) {
		t.Errorf("Resolve(unbound) = %#v, want NoAction", got)
	}
}

func TestStore_SwitchCreatesProfile(t *testing.T) {
	s := NewStore()
	s.Rebind("like", action.Decode("ctrl+c"))

	s.Switch("gaming")
	if got := s.Active(); got != "gaming" {
		t.Fatalf("Active() = %q, want gaming", got)
	}

	// New profile is empty; no fallback to default.
	if got := s.Resolve("like"); !action.Equal(got, action.NoAction{}) {
		t.Errorf("Resolve(like) in new profile = %#v, want NoAction", got)
	}

	s.Switch(DefaultName)
	if got := s.Resolve("like"); !action.Equal(got, action.Decode("ctrl+c")) {
		t.Errorf("Resolve(like) after switching back = %#v, want ctrl+c", got)
	}
}

func TestStore_RebindMovesBetweenMaps(t *testing.T) {
	s := NewStore()

	s.Rebind("one", action.Decode("ctrl+v"))
	s.Rebind("one", action.MouseMove{})

	if got := s.Resolve("one"); !action.Equal(got, action.MouseMove{}) {
		t.Fatalf("Resolve(one) = %#v, want MouseMove", got)
	}

	p, _ := s.Profile(DefaultName)
	if len(p.keys) != 0 {
		t.Errorf("keyboard map still has %d entries after rebinding to a pointer action", len(p.keys))
	}

	s.Rebind("one", action.Decode("enter"))
	p, _ = s.Profile(DefaultName)
	if len(p.motion) != 0 {
		t.Errorf("motion map still has %d entries after rebinding to a key combo", len(p.motion))
	}
}

func TestStore_RebindProfile(t *testing.T) {
	s := NewStore()

	s.RebindProfile("work", "palm", action.MouseButton{Button: action.ButtonRight})

	if s.Active() != DefaultName {
		t.Errorf("RebindProfile should not change the active profile")
	}
	p, ok := s.Profile("work")
	if !ok {
		t.Fatal("profile work was not created")
	}
	if got := p.Resolve("palm"); !action.Equal(got, action.MouseButton{Button: action.ButtonRight}) {
		t.Errorf("work.Resolve(palm) = %#v, want right mouse", got)
	}
}

func TestStore_UnbindProfile(t *testing.T) {
	s := NewStore()
	s.RebindProfile("work", "like", action.ParseCombo("ctrl+s"))

	if !s.UnbindProfile("work", "like") {
		t.Fatal("UnbindProfile() = false for existing profile")
	}
	p, _ := s.Profile("work")
	if len(p.Labels()) != 0 {
		t.Errorf("Labels() = %v after unbind", p.Labels())
	}
	if s.UnbindProfile("missing", "like") {
		t.Error("UnbindProfile() = true for missing profile")
	}
	if _, ok := s.Profile("missing"); ok {
		t.Error("UnbindProfile() should not create profiles")
	}
}

func TestStore_ProfileReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Rebind("ok", action.Decode("a"))

	p, _ := s.Profile(DefaultName)
	p.Bind("ok", action.Decode("b"))

	if got := s.Resolve("ok"); !action.Equal(got, action.Decode("a")) {
		t.Errorf("mutating a returned profile changed the store: got %#v", got)
	}
}

func TestStore_ReplaceKeepsActive(t *testing.T) {
	s := NewStore()
	s.Switch("work")

	work := New("work")
	work.Bind("five", action.Decode("f5"))
	s.Replace(map[string]*Profile{"work": work})

	if s.Active() != "work" {
		t.Errorf("Active() = %q, want work", s.Active())
	}
	if got := s.Resolve("five"); !action.Equal(got, action.Decode("f5")) {
		t.Errorf("Resolve(five) = %#v, want f5", got)
	}

	s.Replace(map[string]*Profile{DefaultName: New(DefaultName)})
	if s.Active() != "work" {
		t.Errorf("Active() = %q after replace without it, want work", s.Active())
	}
	if got := s.Resolve("five"); !action.Equal(got, action.NoAction{}) {
		t.Errorf("Resolve(five) = %#v, want NoAction", got)
	}
}

func TestStore_ConcurrentSwitchAndResolve(t *testing.T) {
	s := NewStore()
	s.RebindProfile("a", "one", action.MouseMove{})
	s.RebindProfile("b", "one", action.MouseButton{Button: action.ButtonLeft})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				s.Switch("a")
			} else {
				s.Switch("b")
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			switch s.Resolve("one").(type) {
			case action.MouseMove, action.MouseButton, action.NoAction:
			default:
				t.Errorf("unexpected action type")
				return
			}
		}
	}()
	wg.Wait()
}

func TestProfile_Labels(t *testing.T) {
	p := New("x")
	p.Bind("palm", action.Decode("space"))
	p.Bind("one", action.MouseMove{})
	p.Bind("c", action.NoAction{})

	labels := p.Labels()
	want := []string{"c", "one", "palm"}
	if len(labels) != len(want) {
		t.Fatalf("Labels() = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("Labels()[%d] = %q, want %q", i, labels[i], want[i])
		}
	}

	p.Unbind("palm")
	if got := p.Resolve("palm"); !action.Equal(got, action.NoAction{}) {
		t.Errorf("Resolve after Unbind = %#v, want NoAction", got)
	}
}

func TestIsKnownLabel(t *testing.T) {
	if !IsKnownLabel("two_fingers_near") {
		t.Error("two_fingers_near should be known")
	}
	if IsKnownLabel("wave") {
		t.Error("wave should not be known")
	}
}
