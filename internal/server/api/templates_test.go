package api

import (
	"math"
	"net/http"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/store"
)

func likePoints() []store.Landmark {
	hand := detector.LikeLandmarks()
	points := make([]store.Landmark, detector.NumLandmarks)
	for i, p := range hand.Points {
		points[i] = store.Landmark{X: p.X, Y: p.Y, Z: p.Z}
	}
	return points
}

func TestTemplateHandler_Create(t *testing.T) {
	s := newTestStore(t)
	reloads := 0
	h := NewTemplateHandler(s, func() error {
		reloads++
		return nil
	}, logging.Discard())

	rec := do(t, h, http.MethodPost, "/api/templates", createTemplateRequest{
		Label:     "like",
		Landmarks: likePoints(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp templateResponse
	decode(t, rec, &resp)
	if resp.ID == "" || resp.Label != "like" || resp.Landmarks != detector.NumLandmarks {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Tolerance != defaultTolerance {
		t.Errorf("expected default tolerance %v, got %v", defaultTolerance, resp.Tolerance)
	}
	if reloads != 1 {
		t.Errorf("expected 1 reload, got %d", reloads)
	}

	stored, err := s.Templates().GetByID(resp.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	// Landmarks are stored wrist-relative.
	if w := stored.Landmarks[detector.Wrist]; w.X != 0 || w.Y != 0 || w.Z != 0 {
		t.Errorf("expected wrist at origin, got %+v", w)
	}
	mcp := stored.Landmarks[detector.MiddleMCP]
	if d := math.Sqrt(mcp.X*mcp.X + mcp.Y*mcp.Y + mcp.Z*mcp.Z); math.Abs(d-1) > 1e-9 {
		t.Errorf("expected unit wrist to middle MCP distance, got %v", d)
	}
}

func TestTemplateHandler_CreateInvalid(t *testing.T) {
	h := NewTemplateHandler(newTestStore(t), nil, logging.Discard())

	tests := []struct {
		name string
		body interface{}
	}{
		{"no label", createTemplateRequest{Landmarks: likePoints()}},
		{"few landmarks", createTemplateRequest{Label: "like", Landmarks: likePoints()[:5]}},
		{"negative tolerance", createTemplateRequest{Label: "like", Tolerance: -1, Landmarks: likePoints()}},
		{"bad json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/templates", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestTemplateHandler_ListGetDelete(t *testing.T) {
	s := newTestStore(t)
	h := NewTemplateHandler(s, nil, logging.Discard())

	tmpl := &store.Template{Label: "palm", Tolerance: 2, Landmarks: likePoints()}
	if err := s.Templates().Create(tmpl); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	rec := do(t, h, http.MethodGet, "/api/templates", nil)
	var list listTemplatesResponse
	decode(t, rec, &list)
	if len(list.Templates) != 1 || list.Templates[0].ID != tmpl.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	rec = do(t, h, http.MethodGet, "/api/templates/"+tmpl.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/api/templates/"+tmpl.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/templates/"+tmpl.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/api/templates/"+tmpl.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d for second delete, got %d", http.StatusNotFound, rec.Code)
	}
}
