package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

type recordingObserver struct {
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func TestUserRepositoryCreateWithProfileCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO dosbing").
		WithArgs("1987", "Dr. Rina", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{Name: "Dr. Rina", Email: "rina@kampus.ac.id", PasswordHash: "hash"}
	err := repo.CreateWithProfile(context.Background(), user, models.SupervisorProfile{NIP: "1987", Name: "Dr. Rina"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleDosbing, user.Role)
	require.NotNil(t, user.Identifier)
	assert.Equal(t, "1987", *user.Identifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateWithProfileRollsBackOnProfileFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO mahasiswa").WillReturnError(errors.New("duplicate nim"))
	mock.ExpectRollback()

	user := &models.User{Name: "Budi", Email: "budi@kampus.ac.id", PasswordHash: "hash"}
	err := repo.CreateWithProfile(context.Background(), user, models.StudentProfile{NIM: 2101, Name: "Budi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mahasiswa profile")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateStudentWritesSupervisor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	supervisor := "D1"
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mahasiswa (nim, nama_mahasiswa, semester, id_program_mbkm, nip_dosbing, created_at, updated_at)")).
		WithArgs(int64(1001), "Ani", nil, nil, "D1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{Name: "Ani", Email: "ani@kampus.ac.id", PasswordHash: "hash"}
	err := repo.CreateWithProfile(context.Background(), user, models.StudentProfile{NIM: 1001, Name: "Ani", SupervisorNIP: &supervisor})
	require.NoError(t, err)
	require.NotNil(t, user.Identifier)
	assert.Equal(t, "1001", *user.Identifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ghost@kampus.ac.id").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@kampus.ac.id")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepositoryMissingCourseIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReferenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id_matkul_knvrs FROM matkul_knvrs WHERE id_matkul_knvrs = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"id_matkul_knvrs"}).AddRow(int64(1)).AddRow(int64(3)))

	missing, err := repo.MissingCourseIDs(context.Background(), []int64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, missing)
	assert.NoError(t, mock.ExpectationsWereMet())

	none, err := repo.MissingCourseIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReferenceRepositoryStudentExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReferenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM mahasiswa WHERE nim = $1)")).
		WithArgs(int64(2101)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.StudentExists(context.Background(), 2101)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListAndUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	observer := &recordingObserver{}
	repo := NewStudentRepository(db, observer)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"nim", "nama_mahasiswa", "semester", "id_program_mbkm", "nip_dosbing", "created_at", "updated_at", "nama_program", "nama_dosbing"}).
		AddRow(int64(2101), "Budi", 5, int64(1), nil, now, now, "Magang", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mahasiswa m LEFT JOIN program_mbkm p")).WillReturnRows(rows)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Budi", students[0].Name)
	require.NotNil(t, students[0].ProgramName)
	assert.Equal(t, "Magang", *students[0].ProgramName)
	assert.Equal(t, []string{"student_list"}, observer.labels)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mahasiswa SET semester = $1, updated_at = $2 WHERE nim = $3")).
		WithArgs(6, sqlmock.AnyArg(), int64(9999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), 9999, map[string]interface{}{"semester": 6})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteReturnsCascadedKeys(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT storage_key FROM berkas_penilaian WHERE nim = $1")).
		WithArgs(int64(2101)).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("berkas/cv.pdf").AddRow("logbook/minggu1.pdf"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mahasiswa WHERE nim = $1")).
		WithArgs(int64(2101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	keys, err := repo.Delete(context.Background(), 2101)
	require.NoError(t, err)
	assert.Equal(t, []string{"berkas/cv.pdf", "logbook/minggu1.pdf"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteUnknownRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT storage_key FROM berkas_penilaian")).
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mahasiswa WHERE nim = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryUsesKindColumns(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStaffRepository(db, models.KindCoordinator)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT nip_koor_mbkm AS nip, nama_koor_mbkm AS nama, created_at, updated_at FROM koor_mbkm WHERE nip_koor_mbkm = $1 LIMIT 1")).
		WithArgs("7701").
		WillReturnRows(sqlmock.NewRows([]string{"nip", "nama", "created_at", "updated_at"}).AddRow("7701", "Pak Koor", now, now))

	staff, err := repo.FindByNIP(context.Background(), "7701")
	require.NoError(t, err)
	assert.Equal(t, "Pak Koor", staff.Name)
	assert.Equal(t, models.KindCoordinator, staff.Kind)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE koor_mbkm SET nama_koor_mbkm = $1, updated_at = $2 WHERE nip_koor_mbkm = $3")).
		WithArgs("Bu Koor", sqlmock.AnyArg(), "7701").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateName(context.Background(), "7701", "Bu Koor"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM koor_mbkm WHERE nip_koor_mbkm = $1")).
		WithArgs("0000").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "0000"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery("INSERT INTO program_mbkm").
		WillReturnRows(sqlmock.NewRows([]string{"id_program_mbkm"}).AddRow(int64(12)))

	program := &models.Program{Name: "Studi Independen"}
	require.NoError(t, repo.Create(context.Background(), program))
	assert.Equal(t, int64(12), program.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreateInsertsCourseLinks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	observer := &recordingObserver{}
	repo := NewRegistrationRepository(db, observer)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO pendaftaran_mbkm").
		WillReturnRows(sqlmock.NewRows([]string{"id_pendaftaran_mbkm"}).AddRow(int64(9)))
	mock.ExpectExec("INSERT INTO pendaftaran_matkul_knvrs").
		WithArgs(int64(9), int64(1), int64(9), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	reg := &models.Registration{NIM: 2101, ProgramID: 1, Date: time.Now(), Status: models.RegistrationPending}
	require.NoError(t, repo.Create(context.Background(), reg, []int64{1, 2}))
	assert.Equal(t, int64(9), reg.ID)
	assert.Equal(t, []string{"registration_create"}, observer.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreateRollsBackWhenLinksFail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO pendaftaran_mbkm").
		WillReturnRows(sqlmock.NewRows([]string{"id_pendaftaran_mbkm"}).AddRow(int64(9)))
	mock.ExpectExec("INSERT INTO pendaftaran_matkul_knvrs").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	reg := &models.Registration{NIM: 2101, ProgramID: 1, Date: time.Now(), Status: models.RegistrationPending}
	err := repo.Create(context.Background(), reg, []int64{1})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryUpdateReplacesCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pendaftaran_mbkm SET status = $1, updated_at = $2 WHERE id_pendaftaran_mbkm = $3")).
		WithArgs("approved", sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pendaftaran_matkul_knvrs WHERE id_pendaftaran_mbkm = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO pendaftaran_matkul_knvrs").
		WithArgs(int64(9), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	courses := []int64{3}
	err := repo.Update(context.Background(), 9, map[string]interface{}{"status": "approved"}, &courses)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryUpdateKeepsCoursesWhenNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pendaftaran_mbkm").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), 9, map[string]interface{}{"status": "rejected"}, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryDeleteUnknownRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pendaftaran_matkul_knvrs WHERE id_pendaftaran_mbkm = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pendaftaran_mbkm WHERE id_pendaftaran_mbkm = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryFindByIDAttachesCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db, nil)

	now := time.Now()
	nip := "1987"
	mock.ExpectQuery(regexp.QuoteMeta("FROM pendaftaran_mbkm r JOIN mahasiswa m")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id_pendaftaran_mbkm", "nim", "id_program_mbkm", "nip_dosbing", "tanggal", "status", "created_at", "updated_at",
			"nama_mahasiswa", "semester", "nama_program", "mitra", "nama_dosbing",
		}).AddRow(int64(9), int64(2101), int64(1), nip, now, "pending", now, now, "Budi", 5, "Magang", "PT Maju", "Dr. Rina"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pendaftaran_matkul_knvrs pm")).
		WillReturnRows(sqlmock.NewRows([]string{"id_pendaftaran_mbkm", "id_matkul_knvrs", "kode_matkul", "nama_matkul", "sks", "created_at", "updated_at"}).
			AddRow(int64(9), int64(1), "IF101", "Kerja Praktik", 3, now, now))

	detail, err := repo.FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Budi", detail.Student.Name)
	assert.Equal(t, "Magang", detail.Program.Name)
	require.NotNil(t, detail.Supervisor)
	assert.Equal(t, "Dr. Rina", detail.Supervisor.Name)
	require.Len(t, detail.Courses, 1)
	assert.Equal(t, "Kerja Praktik", detail.Courses[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryListEmptySkipsCourseQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db, nil)

	nim := int64(2101)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.nim = $1")).
		WithArgs(nim).
		WillReturnRows(sqlmock.NewRows([]string{"id_pendaftaran_mbkm"}))

	list, err := repo.List(context.Background(), models.RegistrationFilter{NIM: &nim})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepositoryDeleteReturnsRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFileRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM berkas_penilaian WHERE id_berkas_penilaian = $1 RETURNING")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(fileColumns).
			AddRow(int64(5), int64(2101), "http://localhost:5000/uploads/cv.pdf", "CV", "uploads/cv.pdf", now, now))

	file, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, file.StorageKey)
	assert.Equal(t, "uploads/cv.pdf", *file.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFileRepository(db)

	category := models.FileTranscript
	mock.ExpectQuery(regexp.QuoteMeta("FROM berkas_penilaian WHERE jenis_berkas = $1")).
		WithArgs("transkrip").
		WillReturnRows(sqlmock.NewRows(fileColumns))

	files, err := repo.List(context.Background(), models.FileFilter{Category: &category})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeConversionRepositoryUpdateUnknown(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGradeConversionRepository(db)

	mock.ExpectExec("UPDATE konversi_nilai").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 77, map[string]interface{}{"grade": "A"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogbookRepositoryListJoinsStudentName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLogbookRepository(db)

	now := time.Now()
	nim := int64(2101)
	mock.ExpectQuery(regexp.QuoteMeta("FROM logbook l LEFT JOIN mahasiswa m ON m.nim = l.nim WHERE l.nim = $1")).
		WithArgs(nim).
		WillReturnRows(sqlmock.NewRows([]string{"id_logbook", "nim", "judul", "subjek", "nama_file", "storage_key", "created_at", "updated_at", "nama_mahasiswa"}).
			AddRow(int64(1), nim, "Minggu 1", nil, nil, nil, now, now, "Budi"))

	items, err := repo.List(context.Background(), &nim)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].StudentName)
	assert.Equal(t, "Budi", *items[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
