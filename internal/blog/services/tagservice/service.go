package tagservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/tagrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/config"
)

var ErrAlreadyExists = errors.New("tag already exists")

type TagService struct {
	tagRepo Repository
	cfg     config.Blog
}

type Repository interface {
	CreateTag(context.Context, models.Tag) (models.Tag, error)
	ListTags(context.Context, models.Page) ([]models.Tag, error)
}

func New(tagRepo Repository, cfg config.Blog) *TagService {
	return &TagService{
		tagRepo: tagRepo,
		cfg:     cfg,
	}
}

func (ts *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (models.Tag, error) {
	now := time.Now().UTC()

	t, err := ts.tagRepo.CreateTag(ctx, models.Tag{ //nolint:exhaustruct
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, tagrepo.ErrAlreadyExists) {
			return models.Tag{}, ErrAlreadyExists
		}

		return models.Tag{}, fmt.Errorf("create tag error: %w", err)
	}

	return t, nil
}

func (ts *TagService) ListTags(ctx context.Context, page models.Page) ([]models.Tag, error) {
	tags, err := ts.tagRepo.ListTags(ctx, page.Normalize(ts.cfg.DefaultPageSize, ts.cfg.MaxPageSize))
	if err != nil {
		return nil, fmt.Errorf("list tags error: %w", err)
	}

	return tags, nil
}
