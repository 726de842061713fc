package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

type userRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	IsAdmin       bool   `json:"is_admin"`
	VolunteerType string `json:"volunteer_type"`
}

type qualificationRequest struct {
	Title     string    `json:"title"`
	ExpiresAt time.Time `json:"expires_at"`
}

type volunteerTypeRequest struct {
	VolunteerType string `json:"volunteer_type"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userSvc.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	created, err := s.userSvc.CreateUser(r.Context(), &storage.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		IsAdmin:       req.IsAdmin,
		VolunteerType: req.VolunteerType,
	})
	if err != nil {
		s.writeServiceError(w, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userSvc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListQualifications(w http.ResponseWriter, r *http.Request) {
	quals, err := s.qualSvc.ListQualifications(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to list qualifications")
		return
	}
	writeJSON(w, http.StatusOK, quals)
}

func (s *Server) handleAddQualification(w http.ResponseWriter, r *http.Request) {
	var req qualificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	q, err := s.qualSvc.AddQualification(r.Context(), chi.URLParam(r, "id"), req.Title, req.ExpiresAt)
	if err != nil {
		s.writeServiceError(w, err, "failed to add qualification")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleRequestVolunteerType(w http.ResponseWriter, r *http.Request) {
	var req volunteerTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	res, err := s.userSvc.RequestVolunteerType(r.Context(), chi.URLParam(r, "id"), req.VolunteerType)
	if err != nil {
		s.writeServiceError(w, err, "failed to request volunteer type")
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

// handleExpiryScan runs the qualification expiry scan immediately.
func (s *Server) handleExpiryScan(w http.ResponseWriter, r *http.Request) {
	n, err := s.qualSvc.NotifyExpired(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to scan qualifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"notified": n})
}
