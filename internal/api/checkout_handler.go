package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/checkout"
)

type CheckoutHandler struct {
	svc    *checkout.Service
	logger *log.Logger
}

func NewCheckoutHandler(svc *checkout.Service, logger *log.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, logger: logger}
}

func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req checkout.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	resp, err := h.svc.CreatePaymentIntent(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkout.CheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	resp, err := h.svc.CreateCheckoutSession(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) SessionTax(w http.ResponseWriter, r *http.Request) {
	var req checkout.SessionTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	resp, err := h.svc.SessionTax(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) OrderDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.OrderDetails(r.Context(), r.URL.Query().Get("payment_intent"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
