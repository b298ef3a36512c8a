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

// StudentRepository persists mahasiswa rows.
type StudentRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewStudentRepository constructs the repository. observer may be nil.
func NewStudentRepository(db *sqlx.DB, observer QueryObserver) *StudentRepository {
	return &StudentRepository{db: db, observer: observer}
}

func studentDetailQuery() squirrel.SelectBuilder {
	return psql.Select(
		"m.nim", "m.nama_mahasiswa", "m.semester", "m.id_program_mbkm", "m.nip_dosbing", "m.created_at", "m.updated_at",
		"p.nama_program", "d.nama_dosbing",
	).
		From("mahasiswa m").
		LeftJoin("program_mbkm p ON p.id_program_mbkm = m.id_program_mbkm").
		LeftJoin("dosbing d ON d.nip_dosbing = m.nip_dosbing")
}

// List returns every student with programme and supervisor names.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	defer observe(r.observer, "student_list", time.Now())
	query, args, err := studentDetailQuery().OrderBy("m.nim").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list students: %w", err)
	}
	students := make([]models.StudentDetail, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByNIM returns one student with joined names.
func (r *StudentRepository) FindByNIM(ctx context.Context, nim int64) (*models.StudentDetail, error) {
	query, args, err := studentDetailQuery().Where(squirrel.Eq{"m.nim": nim}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find student: %w", err)
	}
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Create inserts a student row.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now
	const query = `INSERT INTO mahasiswa (nim, nama_mahasiswa, semester, id_program_mbkm, nip_dosbing, created_at, updated_at) VALUES (:nim, :nama_mahasiswa, :semester, :id_program_mbkm, :nip_dosbing, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update applies column changes. sql.ErrNoRows is returned when nim is unknown.
func (r *StudentRepository) Update(ctx context.Context, nim int64, changes map[string]interface{}) error {
	stmt := psql.Update("mahasiswa").SetMap(withUpdatedAt(changes)).Where(squirrel.Eq{"nim": nim})
	return execAffecting(ctx, r.db, stmt, "update student")
}

const studentObjectKeys = `SELECT storage_key FROM berkas_penilaian WHERE nim = $1 AND storage_key IS NOT NULL
UNION ALL
SELECT storage_key FROM logbook WHERE nim = $1 AND storage_key IS NOT NULL`

// Delete removes a student and returns the storage keys of the files and logbook
// attachments that the delete cascades to. sql.ErrNoRows is returned when nim is unknown.
func (r *StudentRepository) Delete(ctx context.Context, nim int64) (keys []string, err error) {
	defer observe(r.observer, "student_delete", time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.SelectContext(ctx, &keys, studentObjectKeys, nim); err != nil {
		return nil, fmt.Errorf("load student objects: %w", err)
	}
	if err = execAffecting(ctx, tx, psql.Delete("mahasiswa").Where(squirrel.Eq{"nim": nim}), "delete student"); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete student: %w", err)
	}
	return keys, nil
}
