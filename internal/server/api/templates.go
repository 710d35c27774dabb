package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// defaultTolerance is used when a template is created without one.
const defaultTolerance = 1.5

// TemplateHandler handles HTTP requests for gesture templates. Templates let
// the daemon label hand poses the model leaves unclassified.
type TemplateHandler struct {
	store    *store.Store
	onChange func() error
	logger   *slog.Logger
}

// NewTemplateHandler creates a new TemplateHandler. onChange, if non-nil, is
// called after templates are added or removed so the matcher can reload.
func NewTemplateHandler(s *store.Store, onChange func() error, logger *slog.Logger) *TemplateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateHandler{store: s, onChange: onChange, logger: logger}
}

// ServeHTTP routes /api/templates and /api/templates/{id}.
func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/templates")

	switch len(parts) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, parts[0])
		case http.MethodDelete:
			h.delete(w, r, parts[0])
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type createTemplateRequest struct {
	Label     string           `json:"label"`
	Tolerance float64          `json:"tolerance"`
	Landmarks []store.Landmark `json:"landmarks"`
}

type templateResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Tolerance float64 `json:"tolerance"`
	Landmarks int     `json:"landmarks"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type listTemplatesResponse struct {
	Templates []templateResponse `json:"templates"`
}

func toTemplateResponse(t *store.Template) templateResponse {
	return templateResponse{
		ID:        t.ID,
		Label:     t.Label,
		Tolerance: t.Tolerance,
		Landmarks: len(t.Landmarks),
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *TemplateHandler) changed() {
	if h.onChange == nil {
		return
	}
	if err := h.onChange(); err != nil {
		h.logger.Error("failed to reload templates", "error", err)
	}
}

// list handles GET /api/templates.
func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.Templates().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	response := listTemplatesResponse{
		Templates: make([]templateResponse, 0, len(templates)),
	}
	for _, t := range templates {
		response.Templates = append(response.Templates, toTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/templates/{id}.
func (h *TemplateHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.store.Templates().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get template")
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(t))
}

// create handles POST /api/templates.
func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "Label is required")
		return
	}
	if len(req.Landmarks) != detector.NumLandmarks {
		writeError(w, http.StatusBadRequest, "Exactly 21 landmarks are required")
		return
	}
	if req.Tolerance < 0 {
		writeError(w, http.StatusBadRequest, "Tolerance must not be negative")
		return
	}
	tolerance := req.Tolerance
	if tolerance == 0 {
		tolerance = defaultTolerance
	}

	t := &store.Template{
		Label:     req.Label,
		Tolerance: tolerance,
		Landmarks: normalizeLandmarks(req.Landmarks),
	}
	if err := h.store.Templates().Create(t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}
	h.changed()

	writeJSON(w, http.StatusCreated, toTemplateResponse(t))
}

// delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Templates().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	h.changed()

	w.WriteHeader(http.StatusNoContent)
}

// normalizeLandmarks stores captured points in the wrist-relative,
// scale-free form the matcher compares against.
func normalizeLandmarks(raw []store.Landmark) []store.Landmark {
	var hand detector.HandLandmarks
	for i := range hand.Points {
		hand.Points[i] = detector.Point3D{X: raw[i].X, Y: raw[i].Y, Z: raw[i].Z}
	}
	normalized := hand.Normalize()

	out := make([]store.Landmark, detector.NumLandmarks)
	for i, p := range normalized.Points {
		out[i] = store.Landmark{X: p.X, Y: p.Y, Z: p.Z}
	}
	return out
}
