package api

import (
	"net/http"

	"github.com/shaharia-lab/shiftcrew/internal/build"
)

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, build.Current())
}
