package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/commentrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commentsTable = "comments"

var commentColumns = []string{ //nolint:gochecknoglobals
	"id", "content", "post_id", "author_id", "created_at", "updated_at", "is_deleted", "deleted_at",
}

type CommentsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) CommentsPostgresRepo {
	return CommentsPostgresRepo{
		db: db,
	}
}

func (cr CommentsPostgresRepo) CreateComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	query, args, err := pgtools.Psql.Insert(commentsTable).
		Columns("content", "post_id", "author_id", "created_at", "updated_at").
		Values(c.Content, c.PostID, c.AuthorID, c.CreatedAt, c.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := cr.db.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return models.Comment{}, fmt.Errorf("scan error: %w", err)
	}

	return c, nil
}

func (cr CommentsPostgresRepo) GetComment(ctx context.Context, id int64,
	opts pgtools.ReadOptions,
) (models.Comment, error) {
	query, args, err := pgtools.Select(commentsTable, "", opts, commentColumns...).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("to sql error: %w", err)
	}

	c, err := scanComment(cr.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, commentrepo.ErrNotFound
		}

		return models.Comment{}, err
	}

	return c, nil
}

// ListCommentsByPost returns live comments of a post, newest first. The
// post itself is not checked.
func (cr CommentsPostgresRepo) ListCommentsByPost(ctx context.Context, postID int64,
	page models.Page,
) ([]models.Comment, error) {
	query, args, err := pgtools.Select(commentsTable, "", pgtools.ReadOptions{}, commentColumns...).
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(page.Offset)).
		Limit(uint64(page.Limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := cr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0, page.Limit)

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}

		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return comments, nil
}

func (cr CommentsPostgresRepo) UpdateComment(ctx context.Context, id int64, content string,
	updatedAt time.Time,
) (models.Comment, error) {
	query, args, err := pgtools.Update(commentsTable, updatedAt).
		Set("content", content).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(commentColumns, ", ")).ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("to sql error: %w", err)
	}

	c, err := scanComment(cr.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, commentrepo.ErrNotFound
		}

		return models.Comment{}, err
	}

	return c, nil
}

func (cr CommentsPostgresRepo) DeleteComment(ctx context.Context, id int64, deletedAt time.Time) (err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	n, err := pgtools.SoftDelete(ctx, tx, commentsTable, squirrel.Eq{"id": id}, deletedAt)
	if err != nil {
		return err
	}

	if n == 0 {
		return commentrepo.ErrNotFound
	}

	return nil
}

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment

	if err := row.Scan(&c.ID, &c.Content, &c.PostID, &c.AuthorID,
		&c.CreatedAt, &c.UpdatedAt, &c.IsDeleted, &c.DeletedAt); err != nil {
		return models.Comment{}, fmt.Errorf("scan error: %w", err)
	}

	return c, nil
}
