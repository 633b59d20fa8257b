package redistools_test

import (
	"context"
	"testing"
	"time"

	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/redistools"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := redistools.NewClient(context.Background(), config.RedisCache{Addr: mr.Addr(), ExpTime: time.Minute})
	require.NoError(t, err)

	defer rdb.Close()

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	require.True(t, mr.Exists("k"))
}

func TestNewClientCanceled(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := redistools.NewClient(ctx, config.RedisCache{Addr: addr})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
