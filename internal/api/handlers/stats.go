package handlers

import (
	"errors"
	"net/http"

	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	stats, err := h.svc.Get(r.Context(), principalID, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			writeError(w, http.StatusForbidden, "not authorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
