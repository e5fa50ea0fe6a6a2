package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/tax"
)

type TaxHandler struct {
	logger *log.Logger
}

func NewTaxHandler(logger *log.Logger) *TaxHandler {
	return &TaxHandler{logger: logger}
}

// Calculate runs the local state-table tax strategy.
func (h *TaxHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req tax.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := tax.Calculate(req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
