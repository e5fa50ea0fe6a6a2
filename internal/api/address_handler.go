package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
)

type AddressHandler struct {
	easypost *clients.EasyPostClient
	logger   *log.Logger
}

func NewAddressHandler(easypost *clients.EasyPostClient, logger *log.Logger) *AddressHandler {
	return &AddressHandler{easypost: easypost, logger: logger}
}

// Validate verifies deliverability with the address vendor. Missing fields
// are rejected before any vendor call; a vendor outage keeps the result
// structure intact with success:false.
func (h *AddressHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var addr clients.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if addr.Street1 == "" || addr.City == "" || addr.State == "" || addr.Zip == "" {
		writeJSON(w, http.StatusBadRequest, clients.ValidationResult{
			Success: false,
			Errors:  []string{"Missing required address fields: street1, city, state, zip"},
		})
		return
	}

	res, err := h.easypost.ValidateAddress(r.Context(), addr)
	if err != nil {
		h.logger.Printf("address validation error: %v", err)
		writeJSON(w, http.StatusInternalServerError, clients.ValidationResult{
			Success: false,
			Errors:  []string{"Internal server error during address validation"},
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Suggest returns ranked candidate corrections for a possibly misspelled
// address.
func (h *AddressHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var addr clients.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if addr.Street1 == "" || addr.City == "" || addr.State == "" || addr.Zip == "" {
		writeJSON(w, http.StatusBadRequest, clients.SuggestionResult{
			Success:         false,
			Suggestions:     []clients.ValidatedAddress{},
			OriginalAddress: addr,
		})
		return
	}

	res, err := h.easypost.GetAddressSuggestions(r.Context(), addr)
	if err != nil {
		h.logger.Printf("address suggestion error: %v", err)
		writeJSON(w, http.StatusInternalServerError, clients.SuggestionResult{
			Success:     false,
			Suggestions: []clients.ValidatedAddress{},
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
