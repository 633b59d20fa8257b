package server

import "net/http"

// (GET /users/me).
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, currentUser(r.Context()))
}

// (GET /users/{id}).
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	u, err := s.userService.GetUser(r.Context(), id)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, u)
}
