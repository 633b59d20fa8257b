package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	postsTable    = "posts"
	commentsTable = "comments"
)

var postColumns = []string{ //nolint:gochecknoglobals
	"id", "title", "content", "author_id", "created_at", "updated_at", "is_deleted", "deleted_at",
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) PostsPostgresRepo {
	return PostsPostgresRepo{
		db: db,
	}
}

func (pr PostsPostgresRepo) CreatePost(ctx context.Context, post models.Post, //nolint:nonamedreturns
	tagIDs []int64,
) (_ models.Post, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := pgtools.Psql.Insert(postsTable).
		Columns("title", "content", "author_id", "created_at", "updated_at").
		Values(post.Title, post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&post.ID); err != nil {
		return models.Post{}, fmt.Errorf("scan error: %w", err)
	}

	if err = setTags(ctx, tx, post.ID, tagIDs); err != nil {
		return models.Post{}, err
	}

	tags, err := loadTags(ctx, tx, []int64{post.ID})
	if err != nil {
		return models.Post{}, err
	}

	post.Tags = tagsOf(tags, post.ID)

	return post, nil
}

func (pr PostsPostgresRepo) GetPost(ctx context.Context, id int64, opts pgtools.ReadOptions) (models.Post, error) {
	query, args, err := pgtools.Select(postsTable, "", opts, postColumns...).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("to sql error: %w", err)
	}

	p, err := scanPost(pr.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, postrepo.ErrNotFound
		}

		return models.Post{}, err
	}

	tags, err := loadTags(ctx, pr.db, []int64{p.ID})
	if err != nil {
		return models.Post{}, err
	}

	p.Tags = tagsOf(tags, p.ID)

	return p, nil
}

// ListPosts returns live posts, newest first.
func (pr PostsPostgresRepo) ListPosts(ctx context.Context, page models.Page) ([]models.Post, error) {
	query, args, err := pgtools.Select(postsTable, "", pgtools.ReadOptions{}, postColumns...).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(page.Offset)).
		Limit(uint64(page.Limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := pr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0, page.Limit)
	ids := make([]int64, 0, page.Limit)

	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, p)
		ids = append(ids, p.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	tags, err := loadTags(ctx, pr.db, ids)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Tags = tagsOf(tags, posts[i].ID)
	}

	return posts, nil
}

func (pr PostsPostgresRepo) UpdatePost(ctx context.Context, //nolint:nonamedreturns
	req postrepo.UpdatePostRequest,
) (_ models.Post, err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	ub := pgtools.Update(postsTable, req.UpdatedAt).
		Where(squirrel.Eq{"id": req.ID})

	if req.Title != nil {
		ub = ub.Set("title", *req.Title)
	}

	if req.Content != nil {
		ub = ub.Set("content", *req.Content)
	}

	query, args, err := ub.Suffix("RETURNING " + strings.Join(postColumns, ", ")).ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("to sql error: %w", err)
	}

	p, err := scanPost(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, postrepo.ErrNotFound
		}

		return models.Post{}, err
	}

	if req.SetTags {
		if err = clearTags(ctx, tx, p.ID); err != nil {
			return models.Post{}, err
		}

		if err = setTags(ctx, tx, p.ID, req.TagIDs); err != nil {
			return models.Post{}, err
		}
	}

	tags, err := loadTags(ctx, tx, []int64{p.ID})
	if err != nil {
		return models.Post{}, err
	}

	p.Tags = tagsOf(tags, p.ID)

	return p, nil
}

func (pr PostsPostgresRepo) DeletePost(ctx context.Context, req postrepo.DeletePostRequest) (err error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	n, err := pgtools.SoftDelete(ctx, tx, postsTable, squirrel.Eq{"id": req.ID}, req.DeletedAt)
	if err != nil {
		return err
	}

	if n == 0 {
		return postrepo.ErrNotFound
	}

	if req.Cascade {
		if _, err = pgtools.SoftDelete(ctx, tx, commentsTable, squirrel.Eq{"post_id": req.ID}, req.DeletedAt); err != nil {
			return fmt.Errorf("cascade error: %w", err)
		}
	}

	return nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post

	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID,
		&p.CreatedAt, &p.UpdatedAt, &p.IsDeleted, &p.DeletedAt); err != nil {
		return models.Post{}, fmt.Errorf("scan error: %w", err)
	}

	return p, nil
}

func setTags(ctx context.Context, tx pgx.Tx, postID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	ib := pgtools.Psql.Insert("post_tags").Columns("post_id", "tag_id")
	for _, id := range tagIDs {
		ib = ib.Values(postID, id)
	}

	query, args, err := ib.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tags error: %w", err)
	}

	return nil
}

func clearTags(ctx context.Context, tx pgx.Tx, postID int64) error {
	query, args, err := pgtools.Psql.Delete("post_tags").
		Where(squirrel.Eq{"post_id": postID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("clear tags error: %w", err)
	}

	return nil
}

// loadTags returns the live tags of each post, keyed by post id.
func loadTags(ctx context.Context, q querier, postIDs []int64) (map[int64][]models.Tag, error) {
	res := make(map[int64][]models.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return res, nil
	}

	query, args, err := pgtools.Select("tags", "t", pgtools.ReadOptions{},
		"pt.post_id", "t.id", "t.name", "t.created_at", "t.updated_at").
		Join("post_tags pt ON pt.tag_id = t.id").
		Where(squirrel.Eq{"pt.post_id": postIDs}).
		OrderBy("t.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			t      models.Tag
		)

		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tag error: %w", err)
		}

		res[postID] = append(res[postID], t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func tagsOf(tags map[int64][]models.Tag, postID int64) []models.Tag {
	if t, ok := tags[postID]; ok {
		return t
	}

	return []models.Tag{}
}
