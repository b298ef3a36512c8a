package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ReferenceRepository answers existence checks used before writes that reference other rows.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs the repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// StudentExists reports whether a mahasiswa row exists for nim.
func (r *ReferenceRepository) StudentExists(ctx context.Context, nim int64) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM mahasiswa WHERE nim = $1)`, nim)
	if err != nil {
		return false, fmt.Errorf("check student: %w", err)
	}
	return found, nil
}

// ProgramExists reports whether the programme exists.
func (r *ReferenceRepository) ProgramExists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM program_mbkm WHERE id_program_mbkm = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check program: %w", err)
	}
	return found, nil
}

// SupervisorExists reports whether a dosbing row exists for nip.
func (r *ReferenceRepository) SupervisorExists(ctx context.Context, nip string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM dosbing WHERE nip_dosbing = $1)`, nip)
	if err != nil {
		return false, fmt.Errorf("check supervisor: %w", err)
	}
	return found, nil
}

// MissingCourseIDs returns the ids in ids that have no matkul_knvrs row.
func (r *ReferenceRepository) MissingCourseIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := r.db.SelectContext(ctx, &found, `SELECT id_matkul_knvrs FROM matkul_knvrs WHERE id_matkul_knvrs = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("check conversion courses: %w", err)
	}
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
