package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

type createTenantRequest struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Settings map[string]any `json:"settings,omitempty"`
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())

	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := h.svc.Create(r.Context(), principalID, req.Name, domain.TenantCategory(req.Category), req.Settings)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenantNameRequired),
			errors.Is(err, service.ErrInvalidCategory):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create tenant")
		}
		return
	}

	writeJSON(w, http.StatusCreated, tenant)
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	tenant, err := h.svc.Get(r.Context(), principalID, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			writeError(w, http.StatusForbidden, "not authorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch tenant")
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	sub, err := h.svc.GetSubscription(r.Context(), principalID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrTenantNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to fetch subscription")
		}
		return
	}

	writeJSON(w, http.StatusOK, sub)
}
