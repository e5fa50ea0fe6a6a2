package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/inventory"
)

type InventoryHandler struct {
	svc    *inventory.Service
	logger *log.Logger
}

func NewInventoryHandler(svc *inventory.Service, logger *log.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, logger: logger}
}

type inventoryCheckRequest struct {
	Items []inventory.CheckLine `json:"items"`
}

// Check reports availability for a batch of cart lines.
func (h *InventoryHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req inventoryCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Missing required field: items")
		return
	}

	res, err := h.svc.Check(r.Context(), req.Items)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Lookup returns the availability view for a single product id.
func (h *InventoryHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("id")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "Missing required query parameter: id")
		return
	}

	item, err := h.svc.Lookup(r.Context(), productID)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
