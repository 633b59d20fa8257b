// Package guard enforces the author-only policy for mutating operations.
package guard

import (
	"context"
	"errors"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
)

var ErrForbidden = errors.New("not authorized to perform this action")

// AuthorizeMutation fails with ErrForbidden unless user authored entity.
func AuthorizeMutation(entity models.Ownable, user models.User) error {
	if user.ID == 0 || entity.OwnerID() != user.ID {
		return ErrForbidden
	}

	return nil
}

// Mutate loads the target entity, checks ownership and only then applies
// the mutation. Errors from load are returned unchanged so callers can tell
// a missing entity from a forbidden one.
func Mutate[T models.Ownable, R any](ctx context.Context, user models.User,
	load func(context.Context) (T, error),
	apply func(context.Context, T) (R, error),
) (R, error) {
	var zero R

	entity, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if err := AuthorizeMutation(entity, user); err != nil {
		return zero, err
	}

	return apply(ctx, entity)
}
