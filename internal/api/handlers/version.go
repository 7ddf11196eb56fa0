package handlers

import (
	"net/http"

	"route-planner/internal/api/dto"
)

// VersionHandler reports the running build version.
type VersionHandler struct {
	Build string
}

func (h *VersionHandler) Version(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.VersionResponse{Version: h.Build})
}
