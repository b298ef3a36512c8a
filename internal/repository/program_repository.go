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

const (
	programColumns = `id_program_mbkm, nama_program, mitra, kategori, deskripsi, created_at, updated_at`
	courseColumns  = `id_matkul_knvrs, kode_matkul, nama_matkul, sks, created_at, updated_at`
)

// ProgramRepository persists MBKM programmes.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns every programme.
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	programs := make([]models.Program, 0)
	if err := r.db.SelectContext(ctx, &programs, `SELECT `+programColumns+` FROM program_mbkm ORDER BY id_program_mbkm`); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// FindByID returns a programme.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, `SELECT `+programColumns+` FROM program_mbkm WHERE id_program_mbkm = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	return &program, nil
}

// Create inserts a programme and fills its generated id.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	now := time.Now().UTC()
	program.CreatedAt, program.UpdatedAt = now, now
	const query = `INSERT INTO program_mbkm (nama_program, mitra, kategori, deskripsi, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id_program_mbkm`
	if err := r.db.QueryRowxContext(ctx, query, program.Name, program.Partner, program.Category, program.Description, now, now).Scan(&program.ID); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Update applies column changes. sql.ErrNoRows is returned when id is unknown.
func (r *ProgramRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	stmt := psql.Update("program_mbkm").SetMap(withUpdatedAt(changes)).Where(squirrel.Eq{"id_program_mbkm": id})
	return execAffecting(ctx, r.db, stmt, "update program")
}

// Delete removes a programme. sql.ErrNoRows is returned when id is unknown.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.db, psql.Delete("program_mbkm").Where(squirrel.Eq{"id_program_mbkm": id}), "delete program")
}

// CourseRepository persists conversion courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every conversion course.
func (r *CourseRepository) List(ctx context.Context) ([]models.ConversionCourse, error) {
	courses := make([]models.ConversionCourse, 0)
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM matkul_knvrs ORDER BY id_matkul_knvrs`); err != nil {
		return nil, fmt.Errorf("list conversion courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a conversion course.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.ConversionCourse, error) {
	var course models.ConversionCourse
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM matkul_knvrs WHERE id_matkul_knvrs = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find conversion course: %w", err)
	}
	return &course, nil
}

// Create inserts a course and fills its generated id.
func (r *CourseRepository) Create(ctx context.Context, course *models.ConversionCourse) error {
	now := time.Now().UTC()
	course.CreatedAt, course.UpdatedAt = now, now
	const query = `INSERT INTO matkul_knvrs (kode_matkul, nama_matkul, sks, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id_matkul_knvrs`
	if err := r.db.QueryRowxContext(ctx, query, course.Code, course.Name, course.Credits, now, now).Scan(&course.ID); err != nil {
		return fmt.Errorf("create conversion course: %w", err)
	}
	return nil
}

// Update applies column changes. sql.ErrNoRows is returned when id is unknown.
func (r *CourseRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	stmt := psql.Update("matkul_knvrs").SetMap(withUpdatedAt(changes)).Where(squirrel.Eq{"id_matkul_knvrs": id})
	return execAffecting(ctx, r.db, stmt, "update conversion course")
}

// Delete removes a course. sql.ErrNoRows is returned when id is unknown.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.db, psql.Delete("matkul_knvrs").Where(squirrel.Eq{"id_matkul_knvrs": id}), "delete conversion course")
}
