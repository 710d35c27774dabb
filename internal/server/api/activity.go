package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 1000
)

// ActivityHandler serves GET /api/activity?limit=N, newest first.
type ActivityHandler struct {
	store *store.Store
}

// NewActivityHandler creates a handler for the activity log.
func NewActivityHandler(s *store.Store) *ActivityHandler {
	return &ActivityHandler{store: s}
}

type listActivityResponse struct {
	Activity []*store.Activity `json:"activity"`
	Total    int               `json:"total"`
}

func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := defaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	entries, err := h.store.Activity().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activity")
		return
	}
	total, err := h.store.Activity().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count activity")
		return
	}

	if entries == nil {
		entries = []*store.Activity{}
	}
	writeJSON(w, http.StatusOK, listActivityResponse{Activity: entries, Total: total})
}
