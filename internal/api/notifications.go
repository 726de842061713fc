package api

import (
	"net/http"
	"strconv"
)

type testNotificationRequest struct {
	To string `json:"to"`
}

// handleTestNotification sends a test email through the configured transport.
// The delivery outcome is reported in the body, not the status code.
func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	var req testNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	res, err := s.notificationSvc.SendTest(r.Context(), req.To)
	if err != nil {
		s.writeServiceError(w, err, "failed to send test notification")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleListNotificationLog returns recent notification delivery log entries.
// Accepts an optional ?limit=N query parameter (default 50).
func (s *Server) handleListNotificationLog(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.notificationSvc.ListLog(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err, "failed to list notification log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
