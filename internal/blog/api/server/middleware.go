package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/services/authservice"
	"github.com/Leopold1975/blog_api/pkg/logger"
	"github.com/google/uuid"
)

const (
	headerProcessTime = "X-Process-Time"
	headerRequestID   = "X-Request-ID"
)

type ctxKey int

const userKey ctxKey = iota

// timingMiddleware buffers the downstream response so the elapsed time can
// be attached as a header whatever the handler wrote.
func timingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()

			reqID := r.Header.Get(headerRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			defer func() {
				logg.Infof("METHOD %s URI %s %s STATUS %d Latency %s Client IP %s User Agent %s Request ID %s",
					r.Method,
					r.URL.RequestURI(),
					r.Proto,
					rr.Code,
					time.Since(start).String(),
					r.RemoteAddr,
					r.UserAgent(),
					reqID,
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.Header().Set(headerRequestID, reqID)
			w.Header().Set(headerProcessTime, fmt.Sprintf("%.4f", time.Since(start).Seconds()))
			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				logg.Errorf("error: %s", rr.Body)
			}

			if _, err := rr.Body.WriteTo(w); err != nil {
				logg.Errorf("middleware write error: %s", err.Error())
			}
		})
	}
}

// authMiddleware resolves the bearer token to a live user and stores it in
// the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			s.handleError(w, authservice.ErrUnauthorized)

			return
		}

		u, err := s.authService.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			s.handleError(w, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func currentUser(ctx context.Context) models.User {
	u, _ := ctx.Value(userKey).(models.User)

	return u
}
