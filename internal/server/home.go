package server

import (
	"net/http"
	"time"
)

func (s *Service) handleHome(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{
		"message":   "Server is running smoothly",
		"timestamp": time.Now().UTC(),
	})
}
