package postservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postcache"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postrepo"
	"github.com/Leopold1975/blog_api/internal/blog/services/guard"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Leopold1975/blog_api/internal/pkg/validation"
	"github.com/Leopold1975/blog_api/pkg/logger"
)

var ErrNotFound = errors.New("post not found")

type PostService struct {
	postRepo  Repository
	tagRepo   TagRepository
	postCache Cache
	cfg       config.Blog
	lg        logger.Logger
}

type Repository interface {
	CreatePost(context.Context, models.Post, []int64) (models.Post, error)
	GetPost(context.Context, int64, pgtools.ReadOptions) (models.Post, error)
	ListPosts(context.Context, models.Page) ([]models.Post, error)
	UpdatePost(context.Context, postrepo.UpdatePostRequest) (models.Post, error)
	DeletePost(context.Context, postrepo.DeletePostRequest) error
}

type TagRepository interface {
	GetTagsByIDs(context.Context, []int64) ([]models.Tag, error)
}

type Cache interface {
	GetPost(context.Context, int64) (models.Post, error)
	AddPost(context.Context, models.Post) error
	RefreshPost(context.Context, models.Post) error
	MarkDeleted(context.Context, int64) error
}

func New(postRepo Repository, tagRepo TagRepository, postCache Cache,
	cfg config.Blog, lg logger.Logger,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		postCache: postCache,
		cfg:       cfg,
		lg:        lg,
	}
}

func (ps *PostService) CreatePost(ctx context.Context, author models.User,
	req CreatePostRequest,
) (models.Post, error) {
	tagIDs, err := ps.checkTags(ctx, req.TagIDs)
	if err != nil {
		return models.Post{}, err
	}

	now := time.Now().UTC()

	p := models.Post{ //nolint:exhaustruct
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	p, err = ps.postRepo.CreatePost(ctx, p, tagIDs)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post error: %w", err)
	}

	return p, nil
}

// GetPost reads through the cache; deleted posts are never returned.
func (ps *PostService) GetPost(ctx context.Context, id int64) (models.Post, error) {
	p, err := ps.postCache.GetPost(ctx, id)

	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, postrepo.ErrNotFound):
		return models.Post{}, ErrNotFound
	case !errors.Is(err, postcache.ErrMiss):
		ps.lg.Errorf("get post cache error: %s", err.Error())
	}

	p, err = ps.loadPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}

	if err := ps.postCache.AddPost(ctx, p); err != nil {
		ps.lg.Errorf("add post cache error: %s", err.Error())
	}

	return p, nil
}

func (ps *PostService) ListPosts(ctx context.Context, page models.Page) ([]models.Post, error) {
	posts, err := ps.postRepo.ListPosts(ctx, page.Normalize(ps.cfg.DefaultPageSize, ps.cfg.MaxPageSize))
	if err != nil {
		return nil, fmt.Errorf("list posts error: %w", err)
	}

	return posts, nil
}

func (ps *PostService) UpdatePost(ctx context.Context, user models.User, id int64,
	req UpdatePostRequest,
) (models.Post, error) {
	return guard.Mutate(ctx, user,
		func(ctx context.Context) (models.Post, error) { return ps.loadPost(ctx, id) },
		func(ctx context.Context, p models.Post) (models.Post, error) {
			upd := postrepo.UpdatePostRequest{ //nolint:exhaustruct
				ID:        p.ID,
				Title:     req.Title,
				Content:   req.Content,
				UpdatedAt: time.Now().UTC(),
			}

			if req.TagIDs != nil {
				tagIDs, err := ps.checkTags(ctx, *req.TagIDs)
				if err != nil {
					return models.Post{}, err
				}

				upd.TagIDs = tagIDs
				upd.SetTags = true
			}

			updated, err := ps.postRepo.UpdatePost(ctx, upd)
			if err != nil {
				if errors.Is(err, postrepo.ErrNotFound) {
					return models.Post{}, ErrNotFound
				}

				return models.Post{}, fmt.Errorf("update post error: %w", err)
			}

			if err := ps.postCache.RefreshPost(ctx, updated); err != nil {
				ps.lg.Errorf("refresh post cache error: %s", err.Error())
			}

			return updated, nil
		})
}

// DeletePost soft-deletes a post. Its comments stay untouched unless
// cascading is configured.
func (ps *PostService) DeletePost(ctx context.Context, user models.User, id int64) error {
	_, err := guard.Mutate(ctx, user,
		func(ctx context.Context) (models.Post, error) { return ps.loadPost(ctx, id) },
		func(ctx context.Context, p models.Post) (struct{}, error) {
			err := ps.postRepo.DeletePost(ctx, postrepo.DeletePostRequest{
				ID:        p.ID,
				DeletedAt: time.Now().UTC(),
				Cascade:   ps.cfg.CascadeDelete,
			})
			if err != nil {
				if errors.Is(err, postrepo.ErrNotFound) {
					return struct{}{}, ErrNotFound
				}

				return struct{}{}, fmt.Errorf("delete post error: %w", err)
			}

			if err := ps.postCache.MarkDeleted(ctx, p.ID); err != nil {
				ps.lg.Errorf("mark deleted post cache error: %s", err.Error())
			}

			return struct{}{}, nil
		})

	return err
}

func (ps *PostService) loadPost(ctx context.Context, id int64) (models.Post, error) {
	p, err := ps.postRepo.GetPost(ctx, id, pgtools.ReadOptions{})
	if err != nil {
		if errors.Is(err, postrepo.ErrNotFound) {
			return models.Post{}, ErrNotFound
		}

		return models.Post{}, fmt.Errorf("get post error: %w", err)
	}

	return p, nil
}

// checkTags deduplicates ids and makes sure each of them names a live tag.
func (ps *PostService) checkTags(ctx context.Context, ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	uniq := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	if len(uniq) == 0 {
		return uniq, nil
	}

	tags, err := ps.tagRepo.GetTagsByIDs(ctx, uniq)
	if err != nil {
		return nil, fmt.Errorf("get tags error: %w", err)
	}

	if len(tags) != len(uniq) {
		return nil, validation.Errors{"tag_ids": "one or more tag ids are invalid"}
	}

	return uniq, nil
}
