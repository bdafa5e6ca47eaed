package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type createItemRequest struct {
	Name          string `json:"name"`
	SKU           string `json:"sku,omitempty"`
	CostPrice     int64  `json:"cost_price"`
	SalePrice     int64  `json:"sale_price"`
	StockQuantity int    `json:"stock_quantity"`
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.Create(r.Context(), principalID, tenantID, req.Name, req.SKU, req.CostPrice, req.SalePrice, req.StockQuantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, service.ErrItemNameRequired),
			errors.Is(err, service.ErrInvalidPrice),
			errors.Is(err, service.ErrInvalidStock):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create item")
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.PrincipalIDFromContext(r.Context())
	tenantID, ok := urlUUID(w, r, "tenantID")
	if !ok {
		return
	}

	items, err := h.svc.List(r.Context(), principalID, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			writeError(w, http.StatusForbidden, "not authorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	if items == nil {
		items = []domain.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
