package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get(SettingActiveProfile); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := repo.Set(SettingActiveProfile, "default"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(SettingActiveProfile, "games"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := repo.Get(SettingActiveProfile)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "games" {
		t.Errorf("Get() = %q, want %q", got, "games")
	}

	if err := repo.Delete(SettingActiveProfile); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(SettingActiveProfile); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestActivityRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Activity()

	for i := 0; i < 5; i++ {
		a := &Activity{Kind: "tap_key", Label: "ok", Profile: "default", Detail: fmt.Sprintf("tap %d", i)}
		if err := repo.Create(a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if a.ID == "" {
			t.Fatal("Create() should assign an ID")
		}
		if a.CreatedAt.IsZero() {
			t.Fatal("Create() should set CreatedAt")
		}
	}

	recent, err := repo.ListRecent(3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("ListRecent(3) returned %d entries", len(recent))
	}
	for i, want := range []string{"tap 4", "tap 3", "tap 2"} {
		if recent[i].Detail != want {
			t.Errorf("recent[%d].Detail = %q, want %q", i, recent[i].Detail, want)
		}
	}
	if recent[0].Kind != "tap_key" || recent[0].Label != "ok" || recent[0].Profile != "default" {
		t.Errorf("unexpected entry %+v", recent[0])
	}

	if none, err := repo.ListRecent(0); err != nil || len(none) != 0 {
		t.Errorf("ListRecent(0) = %v, %v", none, err)
	}
}

func TestActivityRepository_Error(t *testing.T) {
	s := newTestStore(t)
	repo := s.Activity()

	if err := repo.Create(&Activity{Kind: "mouse_down", Label: "one", Error: "access denied"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	recent, err := repo.ListRecent(1)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if recent[0].Error != "access denied" {
		t.Errorf("Error = %q, want %q", recent[0].Error, "access denied")
	}
}

func TestActivityRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Activity()

	for i := 0; i < 10; i++ {
		if err := repo.Create(&Activity{Kind: "move", Detail: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	deleted, err := repo.Prune(4)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 6 {
		t.Errorf("Prune() deleted %d rows, want 6", deleted)
	}

	n, err := repo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("Count() = %d, want 4", n)
	}

	recent, _ := repo.ListRecent(10)
	if recent[len(recent)-1].Detail != "m6" {
		t.Errorf("oldest kept entry = %q, want m6", recent[len(recent)-1].Detail)
	}
}

func TestTemplateRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Templates()

	tmpl := &Template{
		Label:     "palm",
		Tolerance: 1.5,
		Landmarks: []Landmark{{X: 0, Y: 0, Z: 0}, {X: 0.1, Y: -0.5, Z: 0.02}, {X: 0.2, Y: -0.9, Z: 0}},
	}
	if err := repo.Create(tmpl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tmpl.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.GetByID(tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Label != "palm" || got.Tolerance != 1.5 {
		t.Errorf("GetByID() = %+v", got)
	}
	if len(got.Landmarks) != 3 || got.Landmarks[1] != tmpl.Landmarks[1] {
		t.Errorf("landmarks = %v, want %v", got.Landmarks, tmpl.Landmarks)
	}

	if err := repo.Create(&Template{Label: "like", Tolerance: 1.0, Landmarks: []Landmark{{X: 1}}}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 || all[0].Label != "like" || all[1].Label != "palm" {
		t.Fatalf("List() returned unexpected templates")
	}
	if len(all[1].Landmarks) != 3 {
		t.Errorf("List() landmarks not loaded: %v", all[1].Landmarks)
	}

	if err := repo.Delete(tmpl.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(tmpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}

	var orphans int
	s.DB().QueryRow(`SELECT COUNT(*) FROM template_landmarks WHERE template_id = ?`, tmpl.ID).Scan(&orphans)
	if orphans != 0 {
		t.Errorf("landmarks not cascaded on delete: %d left", orphans)
	}
}
