package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps application errors onto the wire. Anything that is not
// a recognized application error becomes a generic 500: internal details
// never leak to the client.
func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	if ae, ok := apperr.As(err); ok {
		if ae.Kind == apperr.Internal {
			logger.Printf("internal error: %v", ae.Unwrap())
		}
		writeError(w, ae.Status(), ae.Message)
		return
	}
	logger.Printf("unclassified error: %v", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}
