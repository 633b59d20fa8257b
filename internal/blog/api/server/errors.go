package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/blog_api/internal/blog/services/authservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/commentservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/guard"
	"github.com/Leopold1975/blog_api/internal/blog/services/postservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/tagservice"
	"github.com/Leopold1975/blog_api/internal/blog/services/userservice"
	"github.com/Leopold1975/blog_api/internal/pkg/validation"
)

var (
	ErrBadRequest = errors.New("malformed request")
	ErrNotFound   = errors.New("not found")
)

type Error struct {
	Err    string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		return []byte(`{"error":"marshal error"}`)
	}

	return b
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	var ve validation.Errors

	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, authservice.ErrUnauthorized),
		errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, guard.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound),
		errors.Is(err, userservice.ErrNotFound),
		errors.Is(err, postservice.ErrNotFound),
		errors.Is(err, commentservice.ErrNotFound),
		errors.Is(err, commentservice.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, authservice.ErrEmailTaken),
		errors.Is(err, authservice.ErrUsernameTaken),
		errors.Is(err, authservice.ErrUserExists),
		errors.Is(err, tagservice.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	e := Error{Err: err.Error()} //nolint:exhaustruct

	var ve validation.Errors

	switch {
	case errors.As(err, &ve):
		e.Err = "validation error"
		e.Fields = ve
	case code == http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
	case code == http.StatusInternalServerError:
		s.lg.Errorw("request failed", "error", err.Error())
		e.Err = http.StatusText(http.StatusInternalServerError)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(e.ToJSON()) //nolint:errcheck
}
