package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

type shiftRequest struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Capacity  int       `json:"capacity"`
}

type signupRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.shiftSvc.ListShifts(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list shifts")
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

func (s *Server) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	created, err := s.shiftSvc.CreateShift(r.Context(), &storage.Shift{
		Name:      req.Name,
		Location:  req.Location,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
	})
	if err != nil {
		s.writeServiceError(w, err, "failed to create shift")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := s.shiftSvc.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get shift")
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

// handleSignUp records the signup; the confirmation email goes out asynchronously.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	shiftID := chi.URLParam(r, "id")
	if err := s.shiftSvc.SignUp(r.Context(), shiftID, req.UserID); err != nil {
		s.writeServiceError(w, err, "failed to sign up for shift")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"shift_id": shiftID, "user_id": req.UserID})
}

func (s *Server) handleCancelSignup(w http.ResponseWriter, r *http.Request) {
	if err := s.shiftSvc.Cancel(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID")); err != nil {
		s.writeServiceError(w, err, "failed to cancel signup")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
