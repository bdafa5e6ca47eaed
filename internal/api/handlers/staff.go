package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
)

type StaffHandler struct {
	svc *service.StaffService
}

func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

type inviteStaffRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *StaffHandler) Invite(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req inviteStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.svc.Invite(r.Context(), principalID, tenantID, req.Email, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrPrincipalNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyMember):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to invite staff")
		}
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *StaffHandler) Remove(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}
	principalID, ok := urlUUID(w, r, "principalID")
	if !ok {
		return
	}

	if err := h.svc.Remove(r.Context(), callerID, tenantID, principalID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrCannotRemoveOwner):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrMembershipNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to remove staff")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	members, err := h.svc.List(r.Context(), callerID, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			writeError(w, http.StatusForbidden, "not authorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}

	if members == nil {
		members = []domain.Membership{}
	}
	writeJSON(w, http.StatusOK, members)
}
