package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/r-mccarty/opticworks-store-sub001/internal/analytics"
)

type AnalyticsHandler struct {
	store  *analytics.Store
	logger *log.Logger
}

func NewAnalyticsHandler(store *analytics.Store, logger *log.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{store: store, logger: logger}
}

// Track accepts a single event object or a JSON array of events.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	body, err := decodeEvents(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	processed, err := h.store.Track(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"eventsProcessed": processed,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func decodeEvents(r *http.Request) ([]analytics.Event, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var batch []analytics.Event
	if err := json.Unmarshal(raw, &batch); err == nil {
		return batch, nil
	}
	var single analytics.Event
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []analytics.Event{single}, nil
}

// Recent serves the admin view of stored events, newest first.
func (h *AnalyticsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("event")
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events := h.store.Recent(eventType, limit)

	counts := make(map[string]int)
	sessions := make(map[string]struct{})
	users := make(map[string]struct{})
	for _, ev := range events {
		counts[ev.Event]++
		sessions[ev.SessionID] = struct{}{}
		if ev.UserID != "" {
			users[ev.UserID] = struct{}{}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"events":  events,
		"summary": map[string]any{
			"totalEvents":    len(events),
			"uniqueUsers":    len(users),
			"uniqueSessions": len(sessions),
			"eventBreakdown": counts,
		},
	})
}
