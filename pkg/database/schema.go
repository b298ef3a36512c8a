package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	raw := strings.Split(schemaSQL, ";")
	stmts := make([]string, 0, len(raw))
	for _, stmt := range raw {
		if containsSQL(stmt) {
			stmts = append(stmts, strings.TrimSpace(stmt))
		}
	}
	return stmts
}

// Sync applies the idempotent schema inside one transaction.
func Sync(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema sync: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmts := Statements()
	for i, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schema sync: %w", err)
	}
	logger.Info("database schema synchronised", zap.Int("statements", len(stmts)))
	return nil
}

func containsSQL(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}
