package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/r-mccarty/opticworks-store-sub001/internal/checkout"
	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
)

const webhookTolerance = 5 * time.Minute

type WebhookHandler struct {
	svc    *checkout.Service
	secret string
	logger *log.Logger
}

func NewWebhookHandler(svc *checkout.Service, secret string, logger *log.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, secret: secret, logger: logger}
}

// Handle verifies the vendor signature before touching the payload. A
// missing signature is a client error; a failed verification is rejected
// with 401 so the vendor retries with a fresh signature.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	event, err := clients.ConstructWebhookEvent(payload, sig, h.secret, webhookTolerance, time.Now())
	if err != nil {
		if errors.Is(err, clients.ErrNoSignature) {
			writeError(w, http.StatusBadRequest, "No signature provided")
			return
		}
		h.logger.Printf("webhook signature verification failed: %v", err)
		writeError(w, http.StatusUnauthorized, "Webhook signature verification failed")
		return
	}

	if err := h.svc.HandleWebhookEvent(r.Context(), event); err != nil {
		h.logger.Printf("webhook handler error: %v", err)
		writeError(w, http.StatusInternalServerError, "Webhook handler failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
