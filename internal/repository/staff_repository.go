package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

// StaffRepository persists one of the NIP-keyed staff tables selected by kind.
type StaffRepository struct {
	db   *sqlx.DB
	kind models.StaffKind
}

// NewStaffRepository constructs a repository for the given staff table.
func NewStaffRepository(db *sqlx.DB, kind models.StaffKind) *StaffRepository {
	return &StaffRepository{db: db, kind: kind}
}

// Kind returns the table description this repository serves.
func (r *StaffRepository) Kind() models.StaffKind {
	return r.kind
}

func (r *StaffRepository) selectQuery() squirrel.SelectBuilder {
	return psql.Select(
		r.kind.KeyColumn+" AS nip",
		r.kind.NameColumn+" AS nama",
		"created_at",
		"updated_at",
	).From(r.kind.Table)
}

// List returns every row ordered by name.
func (r *StaffRepository) List(ctx context.Context) ([]models.Staff, error) {
	query, args, err := r.selectQuery().OrderBy(r.kind.NameColumn).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", r.kind.Table, err)
	}
	staff := make([]models.Staff, 0)
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Table, err)
	}
	for i := range staff {
		staff[i].Kind = r.kind
	}
	return staff, nil
}

// FindByNIP returns one row.
func (r *StaffRepository) FindByNIP(ctx context.Context, nip string) (*models.Staff, error) {
	query, args, err := r.selectQuery().Where(squirrel.Eq{r.kind.KeyColumn: nip}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find %s: %w", r.kind.Table, err)
	}
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find %s: %w", r.kind.Table, err)
	}
	staff.Kind = r.kind
	return &staff, nil
}

// Create inserts a row.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	now := time.Now().UTC()
	staff.Kind = r.kind
	staff.CreatedAt, staff.UpdatedAt = now, now
	stmt := psql.Insert(r.kind.Table).
		Columns(r.kind.KeyColumn, r.kind.NameColumn, "created_at", "updated_at").
		Values(staff.NIP, staff.Name, now, now)
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build create %s: %w", r.kind.Table, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s: %w", r.kind.Table, err)
	}
	return nil
}

// UpdateName renames a row. sql.ErrNoRows is returned when nip is unknown.
func (r *StaffRepository) UpdateName(ctx context.Context, nip, name string) error {
	stmt := psql.Update(r.kind.Table).
		SetMap(withUpdatedAt(map[string]interface{}{r.kind.NameColumn: name})).
		Where(squirrel.Eq{r.kind.KeyColumn: nip})
	return execAffecting(ctx, r.db, stmt, "update "+r.kind.Table)
}

// Delete removes a row. sql.ErrNoRows is returned when nip is unknown.
func (r *StaffRepository) Delete(ctx context.Context, nip string) error {
	stmt := psql.Delete(r.kind.Table).Where(squirrel.Eq{r.kind.KeyColumn: nip})
	return execAffecting(ctx, r.db, stmt, "delete "+r.kind.Table)
}
