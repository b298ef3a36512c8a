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

const gradeConversionColumns = `id_konversi_nilai, nim, id_berkas_penilaian, nip_dosbing, nilai_akhir, grade, status, created_at, updated_at`

// GradeConversionRepository persists konversi_nilai rows.
type GradeConversionRepository struct {
	db *sqlx.DB
}

// NewGradeConversionRepository constructs the repository.
func NewGradeConversionRepository(db *sqlx.DB) *GradeConversionRepository {
	return &GradeConversionRepository{db: db}
}

// List returns every grade conversion.
func (r *GradeConversionRepository) List(ctx context.Context) ([]models.GradeConversion, error) {
	items := make([]models.GradeConversion, 0)
	if err := r.db.SelectContext(ctx, &items, `SELECT `+gradeConversionColumns+` FROM konversi_nilai ORDER BY id_konversi_nilai`); err != nil {
		return nil, fmt.Errorf("list grade conversions: %w", err)
	}
	return items, nil
}

// FindByID returns one grade conversion.
func (r *GradeConversionRepository) FindByID(ctx context.Context, id int64) (*models.GradeConversion, error) {
	var item models.GradeConversion
	if err := r.db.GetContext(ctx, &item, `SELECT `+gradeConversionColumns+` FROM konversi_nilai WHERE id_konversi_nilai = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find grade conversion: %w", err)
	}
	return &item, nil
}

// Create inserts a grade conversion and fills its generated id.
func (r *GradeConversionRepository) Create(ctx context.Context, item *models.GradeConversion) error {
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	const query = `INSERT INTO konversi_nilai (nim, id_berkas_penilaian, nip_dosbing, nilai_akhir, grade, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id_konversi_nilai`
	if err := r.db.QueryRowxContext(ctx, query, item.NIM, item.FileID, item.SupervisorNIP, item.FinalScore, item.Grade, item.Status, now, now).Scan(&item.ID); err != nil {
		return fmt.Errorf("create grade conversion: %w", err)
	}
	return nil
}

// Update applies column changes. sql.ErrNoRows is returned when id is unknown.
func (r *GradeConversionRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	stmt := psql.Update("konversi_nilai").SetMap(withUpdatedAt(changes)).Where(squirrel.Eq{"id_konversi_nilai": id})
	return execAffecting(ctx, r.db, stmt, "update grade conversion")
}

// Delete removes a grade conversion. sql.ErrNoRows is returned when id is unknown.
func (r *GradeConversionRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.db, psql.Delete("konversi_nilai").Where(squirrel.Eq{"id_konversi_nilai": id}), "delete grade conversion")
}
