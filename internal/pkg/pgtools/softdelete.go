package pgtools

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Psql is the statement builder shared by all repositories.
var Psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar) //nolint:gochecknoglobals

// ReadOptions overrides the default soft-delete filter on read paths.
type ReadOptions struct {
	WithDeleted bool
}

// Select starts a query on table that skips soft-deleted rows unless
// opts.WithDeleted is set. alias qualifies the is_deleted column when the
// query joins other soft-deletable tables.
func Select(table, alias string, opts ReadOptions, columns ...string) squirrel.SelectBuilder {
	from := table
	col := "is_deleted"

	if alias != "" {
		from = table + " " + alias
		col = alias + ".is_deleted"
	}

	sb := Psql.Select(columns...).From(from)

	if !opts.WithDeleted {
		sb = sb.Where(squirrel.Eq{col: false})
	}

	return sb
}

// Update starts an update on live rows of table and stamps updated_at.
func Update(table string, now time.Time) squirrel.UpdateBuilder {
	return Psql.Update(table).
		Set("updated_at", now).
		Where(squirrel.Eq{"is_deleted": false})
}

// SoftDelete flags the live rows of table matching where as deleted and
// returns how many rows changed.
func SoftDelete(ctx context.Context, tx pgx.Tx, table string, where squirrel.Sqlizer, now time.Time) (int64, error) {
	query, args, err := Update(table, now).
		Set("is_deleted", true).
		Set("deleted_at", now).
		Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec error: %w", err)
	}

	return ct.RowsAffected(), nil
}
