package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToConfiguredOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	lg, err := logger.New(config.Logger{Level: "info", Output: []string{out}, ErrOutput: []string{"stderr"}})
	require.NoError(t, err)

	lg.Infow("request completed", "status", 200)
	lg.Debugf("hidden %d", 1)
	_ = lg.Sync()

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(b), "request completed")
	require.NotContains(t, string(b), "hidden")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := logger.New(config.Logger{Level: "loud"})
	require.Error(t, err)
}
