package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/profile"
	"github.com/ayusman/mudra/internal/store"
)

func TestAPI_ProfileWorkflow(t *testing.T) {
	profiles := profile.NewStore()
	keymap := filepath.Join(t.TempDir(), "keymap.json")
	srv := New(Config{
		Profiles: profiles,
		OnProfilesChange: func() error {
			return profile.SaveFile(keymap, profiles)
		},
		Logger: logging.Discard(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a profile
	resp, err := client.Post(ts.URL+"/api/profiles", "application/json", bytes.NewBufferString(`{"name": "work"}`))
	if err != nil {
		t.Fatalf("POST /api/profiles error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	// 2. Bind a gesture in it
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/profiles/work/bindings/like", bytes.NewBufferString(`{"action": "ctrl+c"}`))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT binding error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT binding status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// 3. Switch back to default; like is unbound there
	req, _ = http.NewRequest(http.MethodPut, ts.URL+"/api/profiles/active", bytes.NewBufferString(`{"name": "default"}`))
	resp, _ = client.Do(req)
	resp.Body.Close()
	if !action.Equal(profiles.Resolve("like"), action.NoAction{}) {
		t.Errorf("like resolved to %v in default profile", profiles.Resolve("like"))
	}

	// 4. The keymap file reflects the changes
	loaded, err := profile.LoadFile(keymap)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Active() != profile.DefaultName {
		t.Errorf("saved active = %q, want %q", loaded.Active(), profile.DefaultName)
	}
	loaded.Switch("work")
	if got := loaded.Resolve("like").String(); got != "ctrl+c" {
		t.Errorf("saved binding = %q, want ctrl+c", got)
	}
}

func TestAPI_TemplateWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	reloads := 0
	srv := New(Config{
		Store: s,
		OnTemplatesChange: func() error {
			reloads++
			return nil
		},
		Logger: logging.Discard(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	hand := detector.PalmLandmarks()
	points := make([]store.Landmark, detector.NumLandmarks)
	for i, p := range hand.Points {
		points[i] = store.Landmark{X: p.X, Y: p.Y, Z: p.Z}
	}
	body, _ := json.Marshal(map[string]interface{}{"label": "palm", "landmarks": points})

	// 1. Create a template
	resp, err := client.Post(ts.URL+"/api/templates", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/templates error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// 2. List templates
	resp, _ = client.Get(ts.URL + "/api/templates")
	var listed struct {
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Templates) != 1 || listed.Templates[0].ID != created.ID {
		t.Fatalf("listed = %+v, want one template %s", listed, created.ID)
	}

	// 3. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/templates/"+created.ID, nil)
	resp, _ = client.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	if reloads != 2 {
		t.Errorf("reloads = %d, want 2", reloads)
	}

	// 4. Activity is empty but served
	resp, _ = client.Get(ts.URL + "/api/activity")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /api/activity status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
