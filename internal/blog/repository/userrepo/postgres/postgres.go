package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/userrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usersTable = "users"

var userColumns = []string{ //nolint:gochecknoglobals
	"id", "email", "username", "password_hash", "full_name",
	"created_at", "updated_at", "is_deleted", "deleted_at",
}

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (_ models.User, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := pgtools.Psql.Insert(usersTable).
		Columns("email", "username", "password_hash", "full_name", "created_at", "updated_at").
		Values(u.Email, u.Username, u.PasswordHash, u.FullName, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&u.ID); err != nil {
		if constraint, ok := pgtools.UniqueViolation(err); ok {
			switch constraint {
			case "users_email_key":
				return models.User{}, userrepo.ErrEmailTaken
			case "users_username_key":
				return models.User{}, userrepo.ErrUsernameTaken
			default:
				return models.User{}, userrepo.ErrAlreadyExists
			}
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) GetUserByID(ctx context.Context, id int64,
	opts pgtools.ReadOptions,
) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"id": id}, opts)
}

// GetUserByUsername only finds live users.
func (ur UsersPostgresRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"username": username}, pgtools.ReadOptions{})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, where squirrel.Sqlizer,
	opts pgtools.ReadOptions,
) (models.User, error) {
	query, args, err := pgtools.Select(usersTable, "", opts, userColumns...).
		Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var u models.User

	if err := ur.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName,
		&u.CreatedAt, &u.UpdatedAt, &u.IsDeleted, &u.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, userrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) Ping(ctx context.Context) error {
	if err := ur.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping error: %w", err)
	}

	return nil
}
