package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
)

type BillingHandler struct {
	svc *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

type createLesseeRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	UnitLabel string `json:"unit_label,omitempty"`
}

func (h *BillingHandler) CreateLessee(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req createLesseeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lessee, err := h.svc.CreateLessee(r.Context(), principalID, tenantID, req.Name, req.Phone, req.UnitLabel)
	if err != nil {
		writeBillingError(w, err, "failed to create lessee")
		return
	}

	writeJSON(w, http.StatusCreated, lessee)
}

type createStudentRequest struct {
	Name          string `json:"name"`
	GuardianPhone string `json:"guardian_phone,omitempty"`
	ClassLabel    string `json:"class_label,omitempty"`
}

func (h *BillingHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req createStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.svc.CreateStudent(r.Context(), principalID, tenantID, req.Name, req.GuardianPhone, req.ClassLabel)
	if err != nil {
		writeBillingError(w, err, "failed to create student")
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

type recordPaymentRequest struct {
	Amount int64  `json:"amount"`
	Status string `json:"status,omitempty"`
	Period string `json:"period,omitempty"`
}

func (h *BillingHandler) RecordRentPayment(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}
	lesseeID, ok := urlUUID(w, r, "lesseeID")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.svc.RecordRentPayment(r.Context(), principalID, tenantID, lesseeID, req.Amount, domain.PaymentStatus(req.Status), req.Period)
	if err != nil {
		writeBillingError(w, err, "failed to record payment")
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

func (h *BillingHandler) RecordFeePayment(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}
	studentID, ok := urlUUID(w, r, "studentID")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.svc.RecordFeePayment(r.Context(), principalID, tenantID, studentID, req.Amount, domain.PaymentStatus(req.Status), req.Period)
	if err != nil {
		writeBillingError(w, err, "failed to record payment")
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

func writeBillingError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, service.ErrWrongCategory):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrInvalidPaymentStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLesseeNotFound),
		errors.Is(err, service.ErrStudentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
