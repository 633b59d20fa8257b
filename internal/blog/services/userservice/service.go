package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/userrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
)

var ErrNotFound = errors.New("user not found")

type UserService struct {
	userRepo Repository
}

type Repository interface {
	GetUserByID(context.Context, int64, pgtools.ReadOptions) (models.User, error)
}

func New(userRepo Repository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUser returns the public profile of a live user.
func (us *UserService) GetUser(ctx context.Context, id int64) (models.User, error) {
	u, err := us.userRepo.GetUserByID(ctx, id, pgtools.ReadOptions{})
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrNotFound
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}
