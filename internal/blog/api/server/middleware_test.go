package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Leopold1975/blog_api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestTimingMiddlewareOnPanic(t *testing.T) {
	r := chi.NewRouter()
	r.Use(timingMiddleware(logger.NewNop()), middleware.Recoverer)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rr := httptest.NewRecorder()

	require.NotPanics(t, func() { r.ServeHTTP(rr, req) })
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Regexp(t, `^\d+\.\d{4}$`, rr.Header().Get(headerProcessTime))
	require.NotEmpty(t, rr.Header().Get(headerRequestID))
}
