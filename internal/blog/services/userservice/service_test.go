package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/userrepo"
	"github.com/Leopold1975/blog_api/internal/blog/services/userservice"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/stretchr/testify/require"
)

type repoFunc func(context.Context, int64, pgtools.ReadOptions) (models.User, error)

func (f repoFunc) GetUserByID(ctx context.Context, id int64, opts pgtools.ReadOptions) (models.User, error) {
	return f(ctx, id, opts)
}

func TestGetUser(t *testing.T) {
	errDown := errors.New("db down")

	us := userservice.New(repoFunc(func(_ context.Context, id int64, opts pgtools.ReadOptions) (models.User, error) {
		require.False(t, opts.WithDeleted)

		switch id {
		case 1:
			return models.User{ID: 1, Username: "a"}, nil
		case 2:
			return models.User{}, errDown
		default:
			return models.User{}, userrepo.ErrNotFound
		}
	}))

	u, err := us.GetUser(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "a", u.Username)

	_, err = us.GetUser(context.Background(), 3)
	require.ErrorIs(t, err, userservice.ErrNotFound)

	_, err = us.GetUser(context.Background(), 2)
	require.ErrorIs(t, err, errDown)
	require.NotErrorIs(t, err, userservice.ErrNotFound)
}
