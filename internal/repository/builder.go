package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// QueryObserver receives database timings, typically the metrics service.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

func observe(o QueryObserver, label string, start time.Time) {
	if o != nil {
		o.ObserveDBQuery(label, time.Since(start))
	}
}

// execAffecting runs stmt and returns sql.ErrNoRows when nothing matched.
func execAffecting(ctx context.Context, db sqlx.ExecerContext, stmt squirrel.Sqlizer, label string) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", label, err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", label, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// withUpdatedAt copies changes and stamps updated_at.
func withUpdatedAt(changes map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		out[k] = v
	}
	out["updated_at"] = time.Now().UTC()
	return out
}

func exists(ctx context.Context, db *sqlx.DB, query string, arg interface{}) (bool, error) {
	var found bool
	if err := db.GetContext(ctx, &found, query, arg); err != nil {
		return false, err
	}
	return found, nil
}
