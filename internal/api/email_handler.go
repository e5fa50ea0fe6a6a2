package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/email"
)

type EmailHandler struct {
	svc    *email.Service
	logger *log.Logger
}

func NewEmailHandler(svc *email.Service, logger *log.Logger) *EmailHandler {
	return &EmailHandler{svc: svc, logger: logger}
}

func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req email.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.svc.Send(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
