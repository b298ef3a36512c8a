package models

import "time"

// UserRole is one of the four MBKM roles.
type UserRole string

const (
	RoleKoorMBKM  UserRole = "koor_mbkm"
	RoleAdminSIAP UserRole = "admin_siap"
	RoleDosbing   UserRole = "dosbing"
	RoleMahasiswa UserRole = "mahasiswa"
)

// AllRoles lists every role in a stable order.
func AllRoles() []UserRole {
	return []UserRole{RoleKoorMBKM, RoleAdminSIAP, RoleDosbing, RoleMahasiswa}
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleKoorMBKM, RoleAdminSIAP, RoleDosbing, RoleMahasiswa:
		return true
	}
	return false
}

// User is an account row in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Identifier   *string   `db:"identifier" json:"nip_or_nim,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
