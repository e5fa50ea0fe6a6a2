package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/shipping"
)

type ShippingHandler struct {
	logger *log.Logger
}

func NewShippingHandler(logger *log.Logger) *ShippingHandler {
	return &ShippingHandler{logger: logger}
}

// Rates quotes carrier options from weight and subtotal.
func (h *ShippingHandler) Rates(w http.ResponseWriter, r *http.Request) {
	var req shipping.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	quote, err := shipping.Estimate(req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
