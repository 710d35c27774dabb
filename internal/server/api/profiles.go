package api

import (
	"log/slog"
	"net/http"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/profile"
)

// ProfileHandler serves the keymap profiles:
//
//	GET    /api/profiles                          list profiles
//	POST   /api/profiles                          create a profile and make it active
//	GET    /api/profiles/{name}                   one profile
//	PUT    /api/profiles/active                   switch the active profile
//	PUT    /api/profiles/{name}/bindings/{label}  bind a gesture
//	DELETE /api/profiles/{name}/bindings/{label}  unbind a gesture
type ProfileHandler struct {
	profiles *profile.Store
	onChange func() error
	logger   *slog.Logger
}

// NewProfileHandler creates a handler for profiles. onChange, if non-nil,
// is called after every modification to persist it.
func NewProfileHandler(profiles *profile.Store, onChange func() error, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{profiles: profiles, onChange: onChange, logger: logger}
}

type profileResponse struct {
	Name     string            `json:"name"`
	Active   bool              `json:"active"`
	Bindings map[string]string `json:"bindings"`
}

type listProfilesResponse struct {
	Active   string            `json:"active"`
	Profiles []profileResponse `json:"profiles"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type bindingRequest struct {
	Action string `json:"action"`
}

type bindingResponse struct {
	Profile string `json:"profile"`
	Label   string `json:"label"`
	Action  string `json:"action"`
}

// ServeHTTP routes profile requests.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/profiles")

	switch {
	case len(parts) == 0:
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	case len(parts) == 1 && parts[0] == "active":
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.switchActive(w, r)

	case len(parts) == 1:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.get(w, r, parts[0])

	case len(parts) == 3 && parts[1] == "bindings":
		switch r.Method {
		case http.MethodPut:
			h.bind(w, r, parts[0], parts[2])
		case http.MethodDelete:
			h.unbind(w, r, parts[0], parts[2])
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *ProfileHandler) toResponse(p *profile.Profile) profileResponse {
	bindings := make(map[string]string)
	for label, a := range p.Bindings() {
		bindings[label] = action.Encode(a)
	}
	return profileResponse{
		Name:     p.Name,
		Active:   p.Name == h.profiles.Active(),
		Bindings: bindings,
	}
}

func (h *ProfileHandler) changed() {
	if h.onChange == nil {
		return
	}
	if err := h.onChange(); err != nil {
		h.logger.Error("failed to persist profile change", "error", err)
	}
}

// list handles GET /api/profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	response := listProfilesResponse{
		Active:   h.profiles.Active(),
		Profiles: []profileResponse{},
	}
	for _, name := range h.profiles.Names() {
		if p, ok := h.profiles.Profile(name); ok {
			response.Profiles = append(response.Profiles, h.toResponse(p))
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/profiles. An existing profile is just activated.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Name == "active" {
		writeError(w, http.StatusBadRequest, "Invalid profile name")
		return
	}

	_, existed := h.profiles.Profile(req.Name)
	h.profiles.Switch(req.Name)
	h.changed()

	p, _ := h.profiles.Profile(req.Name)
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, h.toResponse(p))
}

// get handles GET /api/profiles/{name}.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, name string) {
	p, ok := h.profiles.Profile(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(p))
}

// switchActive handles PUT /api/profiles/active.
func (h *ProfileHandler) switchActive(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if _, ok := h.profiles.Profile(req.Name); !ok {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	h.profiles.Switch(req.Name)
	h.logger.Info("switched profile", "profile", req.Name)
	h.changed()
	writeJSON(w, http.StatusOK, nameRequest{Name: req.Name})
}

// bind handles PUT /api/profiles/{name}/bindings/{label}.
func (h *ProfileHandler) bind(w http.ResponseWriter, r *http.Request, name, label string) {
	if !profile.IsKnownLabel(label) {
		writeError(w, http.StatusBadRequest, "Unknown gesture label")
		return
	}
	if _, ok := h.profiles.Profile(name); !ok {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	var req bindingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	a := action.Decode(req.Action)
	h.profiles.RebindProfile(name, label, a)
	h.logger.Info("rebound gesture", "profile", name, "label", label, "action", a.String())
	h.changed()

	writeJSON(w, http.StatusOK, bindingResponse{Profile: name, Label: label, Action: action.Encode(a)})
}

// unbind handles DELETE /api/profiles/{name}/bindings/{label}.
func (h *ProfileHandler) unbind(w http.ResponseWriter, r *http.Request, name, label string) {
	if !h.profiles.UnbindProfile(name, label) {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	h.changed()
	w.WriteHeader(http.StatusNoContent)
}
