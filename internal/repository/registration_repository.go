package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

// RegistrationRepository persists pendaftaran_mbkm rows and their course selections.
type RegistrationRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewRegistrationRepository constructs the repository. observer may be nil.
func NewRegistrationRepository(db *sqlx.DB, observer QueryObserver) *RegistrationRepository {
	return &RegistrationRepository{db: db, observer: observer}
}

type registrationRow struct {
	models.Registration
	StudentName     string  `db:"nama_mahasiswa"`
	StudentSemester *int    `db:"semester"`
	ProgramName     string  `db:"nama_program"`
	ProgramPartner  *string `db:"mitra"`
	SupervisorName  *string `db:"nama_dosbing"`
}

type registrationCourseRow struct {
	RegistrationID int64 `db:"id_pendaftaran_mbkm"`
	models.ConversionCourse
}

func registrationDetailQuery() squirrel.SelectBuilder {
	return psql.Select(
		"r.id_pendaftaran_mbkm", "r.nim", "r.id_program_mbkm", "r.nip_dosbing", "r.tanggal", "r.status", "r.created_at", "r.updated_at",
		"m.nama_mahasiswa", "m.semester", "p.nama_program", "p.mitra", "d.nama_dosbing",
	).
		From("pendaftaran_mbkm r").
		Join("mahasiswa m ON m.nim = r.nim").
		Join("program_mbkm p ON p.id_program_mbkm = r.id_program_mbkm").
		LeftJoin("dosbing d ON d.nip_dosbing = r.nip_dosbing")
}

// List returns registrations matching filter with their references and courses.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error) {
	defer observe(r.observer, "registration_list", time.Now())
	builder := registrationDetailQuery()
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.ProgramID != nil {
		builder = builder.Where(squirrel.Eq{"r.id_program_mbkm": *filter.ProgramID})
	}
	if filter.NIM != nil {
		builder = builder.Where(squirrel.Eq{"r.nim": *filter.NIM})
	}
	query, args, err := builder.OrderBy("r.tanggal DESC", "r.id_pendaftaran_mbkm DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list registrations: %w", err)
	}
	var rows []registrationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return r.attachCourses(ctx, rows)
}

// FindByID returns one registration detail.
func (r *RegistrationRepository) FindByID(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	defer observe(r.observer, "registration_find", time.Now())
	query, args, err := registrationDetailQuery().Where(squirrel.Eq{"r.id_pendaftaran_mbkm": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find registration: %w", err)
	}
	var row registrationRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	details, err := r.attachCourses(ctx, []registrationRow{row})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (r *RegistrationRepository) attachCourses(ctx context.Context, rows []registrationRow) ([]models.RegistrationDetail, error) {
	details := make([]models.RegistrationDetail, 0, len(rows))
	if len(rows) == 0 {
		return details, nil
	}
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	const query = `SELECT pm.id_pendaftaran_mbkm, k.id_matkul_knvrs, k.kode_matkul, k.nama_matkul, k.sks, k.created_at, k.updated_at
FROM pendaftaran_matkul_knvrs pm
JOIN matkul_knvrs k ON k.id_matkul_knvrs = pm.id_matkul_knvrs
WHERE pm.id_pendaftaran_mbkm = ANY($1)
ORDER BY pm.id_pendaftaran_mbkm, k.id_matkul_knvrs`
	var courseRows []registrationCourseRow
	if err := r.db.SelectContext(ctx, &courseRows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list registration courses: %w", err)
	}
	byRegistration := make(map[int64][]models.ConversionCourse, len(rows))
	for _, c := range courseRows {
		byRegistration[c.RegistrationID] = append(byRegistration[c.RegistrationID], c.ConversionCourse)
	}

	for _, row := range rows {
		detail := models.RegistrationDetail{
			Registration: row.Registration,
			Student:      models.RegistrationStudent{NIM: row.NIM, Name: row.StudentName, Semester: row.StudentSemester},
			Program:      models.RegistrationProgram{ID: row.ProgramID, Name: row.ProgramName, Partner: row.ProgramPartner},
			Courses:      byRegistration[row.ID],
		}
		if detail.Courses == nil {
			detail.Courses = []models.ConversionCourse{}
		}
		if row.SupervisorNIP != nil {
			name := ""
			if row.SupervisorName != nil {
				name = *row.SupervisorName
			}
			detail.Supervisor = &models.RegistrationSupervisor{NIP: *row.SupervisorNIP, Name: name}
		}
		details = append(details, detail)
	}
	return details, nil
}

// Create inserts the registration and one pivot row per course in one transaction.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration, courseIDs []int64) (err error) {
	defer observe(r.observer, "registration_create", time.Now())
	now := time.Now().UTC()
	reg.CreatedAt, reg.UpdatedAt = now, now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO pendaftaran_mbkm (nim, id_program_mbkm, nip_dosbing, tanggal, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id_pendaftaran_mbkm`
	if err = tx.QueryRowxContext(ctx, insert, reg.NIM, reg.ProgramID, reg.SupervisorNIP, reg.Date, reg.Status, now, now).Scan(&reg.ID); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	if err = insertCourseLinks(ctx, tx, reg.ID, courseIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create registration: %w", err)
	}
	return nil
}

// Update applies scalar changes and, when courseIDs is non-nil, replaces every
// course selection. Both happen in one transaction. sql.ErrNoRows is returned
// when id is unknown.
func (r *RegistrationRepository) Update(ctx context.Context, id int64, changes map[string]interface{}, courseIDs *[]int64) (err error) {
	defer observe(r.observer, "registration_update", time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt := psql.Update("pendaftaran_mbkm").SetMap(withUpdatedAt(changes)).Where(squirrel.Eq{"id_pendaftaran_mbkm": id})
	if err = execAffecting(ctx, tx, stmt, "update registration"); err != nil {
		return err
	}
	if courseIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM pendaftaran_matkul_knvrs WHERE id_pendaftaran_mbkm = $1`, id); err != nil {
			return fmt.Errorf("clear registration courses: %w", err)
		}
		if err = insertCourseLinks(ctx, tx, id, *courseIDs); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update registration: %w", err)
	}
	return nil
}

// Delete removes the course selections then the registration in one transaction.
func (r *RegistrationRepository) Delete(ctx context.Context, id int64) (err error) {
	defer observe(r.observer, "registration_delete", time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete registration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM pendaftaran_matkul_knvrs WHERE id_pendaftaran_mbkm = $1`, id); err != nil {
		return fmt.Errorf("clear registration courses: %w", err)
	}
	if err = execAffecting(ctx, tx, psql.Delete("pendaftaran_mbkm").Where(squirrel.Eq{"id_pendaftaran_mbkm": id}), "delete registration"); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete registration: %w", err)
	}
	return nil
}

func insertCourseLinks(ctx context.Context, tx *sqlx.Tx, registrationID int64, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}
	stmt := psql.Insert("pendaftaran_matkul_knvrs").Columns("id_pendaftaran_mbkm", "id_matkul_knvrs")
	for _, courseID := range courseIDs {
		stmt = stmt.Values(registrationID, courseID)
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build registration courses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert registration courses: %w", err)
	}
	return nil
}
