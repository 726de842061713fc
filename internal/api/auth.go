package api

import (
	"net/http"
)

type otpRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// handleRequestOTP mails a login code. A transport failure still answers 202
// with delivered=false so the client can offer a retry.
func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	res, err := s.authSvc.RequestLogin(r.Context(), req.Email)
	if err != nil {
		s.writeServiceError(w, err, "failed to send login code")
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return
	}

	user, err := s.authSvc.VerifyLogin(r.Context(), req.Email, req.Code)
	if err != nil {
		s.writeServiceError(w, err, "failed to verify login code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verified": true, "user": user})
}
