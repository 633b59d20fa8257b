package server

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/Leopold1975/blog_api/internal/blog/services/authservice"
)

const maxFormMemory = 1 << 20

// (POST /auth/register).
func (s *Server) PostRegister(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterRequest

	if err := s.decode(r, &req); err != nil {
		s.handleError(w, err)

		return
	}

	u, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, u)
}

// PostLogin accepts form-encoded or JSON credentials.
// (POST /auth/login).
func (s *Server) PostLogin(w http.ResponseWriter, r *http.Request) {
	var req authservice.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		if err := s.decode(r, &req); err != nil {
			s.handleError(w, err)

			return
		}
	} else {
		parse := r.ParseForm
		if mediaType == "multipart/form-data" {
			parse = func() error { return r.ParseMultipartForm(maxFormMemory) }
		}

		if err := parse(); err != nil {
			s.handleError(w, fmt.Errorf("%w: %w", ErrBadRequest, err))

			return
		}

		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")

		if err := s.validator.Struct(req); err != nil {
			s.handleError(w, err)

			return
		}
	}

	token, err := s.authService.Login(r.Context(), req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: authservice.TokenType})
}
