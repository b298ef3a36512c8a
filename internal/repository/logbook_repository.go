package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

var logbookColumns = []string{"id_logbook", "nim", "judul", "subjek", "nama_file", "storage_key", "created_at", "updated_at"}

// LogbookRepository persists logbook rows.
type LogbookRepository struct {
	db *sqlx.DB
}

// NewLogbookRepository constructs the repository.
func NewLogbookRepository(db *sqlx.DB) *LogbookRepository {
	return &LogbookRepository{db: db}
}

func logbookDetailQuery() squirrel.SelectBuilder {
	cols := make([]string, 0, len(logbookColumns)+1)
	for _, c := range logbookColumns {
		cols = append(cols, "l."+c)
	}
	cols = append(cols, "m.nama_mahasiswa")
	return psql.Select(cols...).From("logbook l").LeftJoin("mahasiswa m ON m.nim = l.nim")
}

// List returns entries joined with the author's name, optionally for one student.
func (r *LogbookRepository) List(ctx context.Context, nim *int64) ([]models.LogbookDetail, error) {
	builder := logbookDetailQuery()
	if nim != nil {
		builder = builder.Where(squirrel.Eq{"l.nim": *nim})
	}
	query, args, err := builder.OrderBy("l.created_at DESC", "l.id_logbook DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list logbooks: %w", err)
	}
	items := make([]models.LogbookDetail, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list logbooks: %w", err)
	}
	return items, nil
}

// FindByID returns one entry with the author's name.
func (r *LogbookRepository) FindByID(ctx context.Context, id int64) (*models.LogbookDetail, error) {
	query, args, err := logbookDetailQuery().Where(squirrel.Eq{"l.id_logbook": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find logbook: %w", err)
	}
	var item models.LogbookDetail
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find logbook: %w", err)
	}
	return &item, nil
}

// Create inserts an entry and fills its generated id.
func (r *LogbookRepository) Create(ctx context.Context, item *models.Logbook) error {
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	const query = `INSERT INTO logbook (nim, judul, subjek, nama_file, storage_key, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id_logbook`
	if err := r.db.QueryRowxContext(ctx, query, item.NIM, item.Title, item.Subject, item.FileURL, item.StorageKey, now, now).Scan(&item.ID); err != nil {
		return fmt.Errorf("create logbook: %w", err)
	}
	return nil
}

// Update applies column changes. sql.ErrNoRows is returned when id is unknown.
func (r *LogbookRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	stmt := psql.Update("logbook").SetMap(withUpdatedAt(changes)).Where(squirrel.Eq{"id_logbook": id})
	return execAffecting(ctx, r.db, stmt, "update logbook")
}

// Delete removes an entry and returns it so an attached object can be cleaned up.
func (r *LogbookRepository) Delete(ctx context.Context, id int64) (*models.Logbook, error) {
	query, args, err := psql.Delete("logbook").Where(squirrel.Eq{"id_logbook": id}).Suffix("RETURNING " + joinColumns(logbookColumns)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete logbook: %w", err)
	}
	var item models.Logbook
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete logbook: %w", err)
	}
	return &item, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
