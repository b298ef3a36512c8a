package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

const userColumns = `id, name, email, password_hash, role, identifier, created_at, updated_at`

// UserRepository provides database access for accounts and their role rows.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// CreateWithProfile inserts the user and exactly one role row in a single transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile models.Profile) (err error) {
	if profile == nil {
		return fmt.Errorf("create user: missing role profile")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Role = profile.Role()
	identifier := profile.Identifier()
	user.Identifier = &identifier

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `INSERT INTO users (id, name, email, password_hash, role, identifier, created_at, updated_at) VALUES (:id, :name, :email, :password_hash, :role, :identifier, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertUser, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err = insertProfile(ctx, tx, profile, now); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

func insertProfile(ctx context.Context, tx *sqlx.Tx, profile models.Profile, now time.Time) error {
	var (
		query string
		args  []interface{}
	)
	switch p := profile.(type) {
	case models.StudentProfile:
		query = `INSERT INTO mahasiswa (nim, nama_mahasiswa, semester, id_program_mbkm, nip_dosbing, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)`
		args = []interface{}{p.NIM, p.Name, p.Semester, p.ProgramID, p.SupervisorNIP, now}
	case models.SupervisorProfile:
		query = `INSERT INTO dosbing (nip_dosbing, nama_dosbing, created_at, updated_at) VALUES ($1, $2, $3, $3)`
		args = []interface{}{p.NIP, p.Name, now}
	case models.CoordinatorProfile:
		query = `INSERT INTO koor_mbkm (nip_koor_mbkm, nama_koor_mbkm, created_at, updated_at) VALUES ($1, $2, $3, $3)`
		args = []interface{}{p.NIP, p.Name, now}
	case models.AdminStaffProfile:
		query = `INSERT INTO admin_siap (nip_admin_siap, nama_admin_siap, created_at, updated_at) VALUES ($1, $2, $3, $3)`
		args = []interface{}{p.NIP, p.Name, now}
	default:
		return fmt.Errorf("create %s profile: unsupported profile type %T", profile.Role(), profile)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s profile: %w", profile.Role(), err)
	}
	return nil
}
