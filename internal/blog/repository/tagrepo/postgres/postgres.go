package postgres

import (
	"context"
	"fmt"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/tagrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tagsTable = "tags"

type TagsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) TagsPostgresRepo {
	return TagsPostgresRepo{
		db: db,
	}
}

func (tr TagsPostgresRepo) CreateTag(ctx context.Context, t models.Tag) (models.Tag, error) {
	query, args, err := pgtools.Psql.Insert(tagsTable).
		Columns("name", "created_at", "updated_at").
		Values(t.Name, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Tag{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := tr.db.QueryRow(ctx, query, args...).Scan(&t.ID); err != nil {
		if _, ok := pgtools.UniqueViolation(err); ok {
			return models.Tag{}, tagrepo.ErrAlreadyExists
		}

		return models.Tag{}, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

// GetTagsByIDs returns the live tags among ids; missing or deleted ids are
// silently skipped.
func (tr TagsPostgresRepo) GetTagsByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}

	sb := pgtools.Select(tagsTable, "", pgtools.ReadOptions{}, "id", "name", "created_at", "updated_at").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("name")

	return tr.queryTags(ctx, sb)
}

func (tr TagsPostgresRepo) ListTags(ctx context.Context, page models.Page) ([]models.Tag, error) {
	sb := pgtools.Select(tagsTable, "", pgtools.ReadOptions{}, "id", "name", "created_at", "updated_at").
		OrderBy("name", "id").
		Offset(uint64(page.Offset)).
		Limit(uint64(page.Limit))

	return tr.queryTags(ctx, sb)
}

func (tr TagsPostgresRepo) queryTags(ctx context.Context, sb squirrel.SelectBuilder) ([]models.Tag, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)

	for rows.Next() {
		var t models.Tag

		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tags, nil
}
