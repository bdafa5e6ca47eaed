package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
	"github.com/okellodev/dukani/internal/store"
)

type SaleHandler struct {
	svc *service.SaleService
}

func NewSaleHandler(svc *service.SaleService) *SaleHandler {
	return &SaleHandler{svc: svc}
}

type saleLineRequest struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type createSaleRequest struct {
	CustomerName string            `json:"customer_name,omitempty"`
	Lines        []saleLineRequest `json:"lines"`
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]domain.SaleLineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		itemID, err := uuid.Parse(l.ItemID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		lines = append(lines, domain.SaleLineRequest{
			ItemID:    itemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	sale, err := h.svc.Create(r.Context(), principalID, tenantID, req.CustomerName, lines)
	if err != nil {
		var stockErr *store.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrNoLines),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidUnitPrice):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrItemNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &stockErr):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":     "insufficient stock",
				"item_id":   stockErr.ItemID.String(),
				"requested": stockErr.Requested,
				"available": stockErr.Available,
			})
		default:
			writeError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}

	writeJSON(w, http.StatusCreated, sale)
}

func (h *SaleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}
	saleID, ok := urlUUID(w, r, "saleID")
	if !ok {
		return
	}

	sale, err := h.svc.GetByID(r.Context(), principalID, tenantID, saleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrSaleNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to fetch sale")
		}
		return
	}

	writeJSON(w, http.StatusOK, sale)
}
