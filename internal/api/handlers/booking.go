package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
)

type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createReservationRequest struct {
	GuestName      string    `json:"guest_name"`
	GuestPhone     string    `json:"guest_phone,omitempty"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	Guests         int       `json:"guests"`
	TotalAmount    int64     `json:"total_amount"`
	ResourceUnitID string    `json:"resource_unit_id,omitempty"`
}

func (h *BookingHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking := service.BookingRequest{
		GuestName:   req.GuestName,
		GuestPhone:  req.GuestPhone,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Guests:      req.Guests,
		TotalAmount: req.TotalAmount,
	}
	if req.ResourceUnitID != "" {
		unitID, err := uuid.Parse(req.ResourceUnitID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid resource_unit_id")
			return
		}
		booking.ResourceUnitID = &unitID
	}

	reservation, err := h.svc.Create(r.Context(), principalID, tenantID, booking)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrGuestNameRequired),
			errors.Is(err, service.ErrInvalidDates),
			errors.Is(err, service.ErrInvalidGuests),
			errors.Is(err, service.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnitNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUnitUnavailable):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create reservation")
		}
		return
	}

	writeJSON(w, http.StatusCreated, reservation)
}

type createUnitRequest struct {
	Name        string `json:"name"`
	UnitType    string `json:"unit_type,omitempty"`
	NightlyRate int64  `json:"nightly_rate"`
}

func (h *BookingHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req createUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	unit, err := h.svc.CreateUnit(r.Context(), principalID, tenantID, req.Name, req.UnitType, req.NightlyRate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrUnitNameRequired),
			errors.Is(err, service.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create unit")
		}
		return
	}

	writeJSON(w, http.StatusCreated, unit)
}

func (h *BookingHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	units, err := h.svc.ListUnits(r.Context(), principalID, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			writeError(w, http.StatusForbidden, "not authorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list units")
		return
	}

	if units == nil {
		units = []domain.ResourceUnit{}
	}
	writeJSON(w, http.StatusOK, units)
}
