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

var fileColumns = []string{"id_berkas_penilaian", "nim", "nama_berkas", "jenis_berkas", "storage_key", "created_at", "updated_at"}

// FileRepository persists berkas_penilaian rows.
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository constructs the repository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// List returns files matching filter, newest first.
func (r *FileRepository) List(ctx context.Context, filter models.FileFilter) ([]models.AssessmentFile, error) {
	builder := psql.Select(fileColumns...).From("berkas_penilaian")
	if filter.Category != nil {
		builder = builder.Where(squirrel.Eq{"jenis_berkas": *filter.Category})
	}
	if filter.NIM != nil {
		builder = builder.Where(squirrel.Eq{"nim": *filter.NIM})
	}
	query, args, err := builder.OrderBy("created_at DESC", "id_berkas_penilaian DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list files: %w", err)
	}
	files := make([]models.AssessmentFile, 0)
	if err := r.db.SelectContext(ctx, &files, query, args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// FindByID returns one file row.
func (r *FileRepository) FindByID(ctx context.Context, id int64) (*models.AssessmentFile, error) {
	query, args, err := psql.Select(fileColumns...).From("berkas_penilaian").Where(squirrel.Eq{"id_berkas_penilaian": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find file: %w", err)
	}
	var file models.AssessmentFile
	if err := r.db.GetContext(ctx, &file, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &file, nil
}

// Create inserts a file row and fills its generated id.
func (r *FileRepository) Create(ctx context.Context, file *models.AssessmentFile) error {
	now := time.Now().UTC()
	file.CreatedAt, file.UpdatedAt = now, now
	const query = `INSERT INTO berkas_penilaian (nim, nama_berkas, jenis_berkas, storage_key, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id_berkas_penilaian`
	if err := r.db.QueryRowxContext(ctx, query, file.NIM, file.URL, file.Category, file.StorageKey, now, now).Scan(&file.ID); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

// Delete removes a file row and returns it so the stored object can be cleaned up.
func (r *FileRepository) Delete(ctx context.Context, id int64) (*models.AssessmentFile, error) {
	query, args, err := psql.Delete("berkas_penilaian").Where(squirrel.Eq{"id_berkas_penilaian": id}).Suffix("RETURNING " + joinColumns(fileColumns)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete file: %w", err)
	}
	var file models.AssessmentFile
	if err := r.db.GetContext(ctx, &file, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete file: %w", err)
	}
	return &file, nil
}
