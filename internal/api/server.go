package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/shiftcrew/internal/otp"
	"github.com/shaharia-lab/shiftcrew/internal/service"
)

const errInvalidJSONBody = "invalid JSON body"

// Services bundles the business services the handlers call.
type Services struct {
	Auth           service.AuthService
	Users          service.UserService
	Shifts         service.ShiftService
	Qualifications service.QualificationService
	Notifications  service.NotificationService
}

// Server holds all dependencies for the REST API handlers.
type Server struct {
	authSvc         service.AuthService
	userSvc         service.UserService
	shiftSvc        service.ShiftService
	qualSvc         service.QualificationService
	notificationSvc service.NotificationService
	logger          *slog.Logger
}

// New creates a new API Server backed by the provided services.
func New(svcs Services, logger *slog.Logger) *Server {
	return &Server{
		authSvc:         svcs.Auth,
		userSvc:         svcs.Users,
		shiftSvc:        svcs.Shifts,
		qualSvc:         svcs.Qualifications,
		notificationSvc: svcs.Notifications,
		logger:          logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Passwordless login
	r.Post("/auth/otp", s.handleRequestOTP)
	r.Post("/auth/otp/verify", s.handleVerifyOTP)

	// Users
	r.Get("/users", s.handleListUsers)
	r.Post("/users", s.handleCreateUser)
	r.Get("/users/{id}", s.handleGetUser)
	r.Get("/users/{id}/qualifications", s.handleListQualifications)
	r.Post("/users/{id}/qualifications", s.handleAddQualification)
	r.Post("/users/{id}/volunteer-type-requests", s.handleRequestVolunteerType)

	// Shifts
	r.Get("/shifts", s.handleListShifts)
	r.Post("/shifts", s.handleCreateShift)
	r.Get("/shifts/{id}", s.handleGetShift)
	r.Post("/shifts/{id}/signups", s.handleSignUp)
	r.Delete("/shifts/{id}/signups/{userID}", s.handleCancelSignup)

	// Qualification expiry scan, normally run by the scheduler
	r.Post("/qualifications/expiry-scan", s.handleExpiryScan)

	// Notifications
	r.Get("/notifications/log", s.handleListNotificationLog)
	r.Post("/notifications/test", s.handleTestNotification)

	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps typed service and login errors to a status code.
// Anything else is logged and reported as a 500 with msg.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, msg string) {
	var (
		ve  *service.ValidationError
		nfe *service.NotFoundError
		ce  *service.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, nfe.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Error())
	case errors.Is(err, otp.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, otp.ErrInvalidCode),
		errors.Is(err, otp.ErrExpired),
		errors.Is(err, otp.ErrTooManyAttempts):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
