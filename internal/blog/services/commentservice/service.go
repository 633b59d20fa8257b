package commentservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/commentrepo"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postrepo"
	"github.com/Leopold1975/blog_api/internal/blog/services/guard"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
)

var (
	ErrNotFound     = errors.New("comment not found")
	ErrPostNotFound = errors.New("post not found")
)

type CommentService struct {
	commentRepo Repository
	postRepo    PostRepository
	cfg         config.Blog
}

type Repository interface {
	CreateComment(context.Context, models.Comment) (models.Comment, error)
	GetComment(context.Context, int64, pgtools.ReadOptions) (models.Comment, error)
	ListCommentsByPost(context.Context, int64, models.Page) ([]models.Comment, error)
	UpdateComment(context.Context, int64, string, time.Time) (models.Comment, error)
	DeleteComment(context.Context, int64, time.Time) error
}

type PostRepository interface {
	GetPost(context.Context, int64, pgtools.ReadOptions) (models.Post, error)
}

func New(commentRepo Repository, postRepo PostRepository, cfg config.Blog) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cfg:         cfg,
	}
}

// CreateComment attaches a comment to a live post.
func (cs *CommentService) CreateComment(ctx context.Context, author models.User,
	req CreateCommentRequest,
) (models.Comment, error) {
	if _, err := cs.postRepo.GetPost(ctx, req.PostID, pgtools.ReadOptions{}); err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return models.Comment{}, ErrPostNotFound
		}

		return models.Comment{}, fmt.Errorf("get post error: %w", err)
	}

	now := time.Now().UTC()

	c, err := cs.commentRepo.CreateComment(ctx, models.Comment{ //nolint:exhaustruct
		Content:   req.Content,
		PostID:    req.PostID,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Comment{}, fmt.Errorf("create comment error: %w", err)
	}

	return c, nil
}

func (cs *CommentService) GetComment(ctx context.Context, id int64) (models.Comment, error) {
	c, err := cs.commentRepo.GetComment(ctx, id, pgtools.ReadOptions{})
	if err != nil {
		if errors.Is(err, commentrepo.ErrNotFound) {
			return models.Comment{}, ErrNotFound
		}

		return models.Comment{}, fmt.Errorf("get comment error: %w", err)
	}

	return c, nil
}

func (cs *CommentService) ListCommentsByPost(ctx context.Context, postID int64,
	page models.Page,
) ([]models.Comment, error) {
	comments, err := cs.commentRepo.ListCommentsByPost(ctx, postID,
		page.Normalize(cs.cfg.DefaultPageSize, cs.cfg.MaxPageSize))
	if err != nil {
		return nil, fmt.Errorf("list comments error: %w", err)
	}

	return comments, nil
}

func (cs *CommentService) UpdateComment(ctx context.Context, user models.User, id int64,
	req UpdateCommentRequest,
) (models.Comment, error) {
	return guard.Mutate(ctx, user, func(ctx context.Context) (models.Comment, error) {
		return cs.GetComment(ctx, id)
	}, func(ctx context.Context, c models.Comment) (models.Comment, error) {
		updated, err := cs.commentRepo.UpdateComment(ctx, c.ID, req.Content, time.Now().UTC())
		if err != nil {
			if errors.Is(err, commentrepo.ErrNotFound) {
				return models.Comment{}, ErrNotFound
			}

			return models.Comment{}, fmt.Errorf("update comment error: %w", err)
		}

		return updated, nil
	})
}

func (cs *CommentService) DeleteComment(ctx context.Context, user models.User, id int64) error {
	_, err := guard.Mutate(ctx, user, func(ctx context.Context) (models.Comment, error) {
		return cs.GetComment(ctx, id)
	}, func(ctx context.Context, c models.Comment) (struct{}, error) {
		if err := cs.commentRepo.DeleteComment(ctx, c.ID, time.Now().UTC()); err != nil {
			if errors.Is(err, commentrepo.ErrNotFound) {
				return struct{}{}, ErrNotFound
			}

			return struct{}{}, fmt.Errorf("delete comment error: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}
