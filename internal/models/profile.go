package models

import "strconv"

// Profile is the role-specific row written together with a user. The set of
// implementations is closed: only types in this package satisfy it.
type Profile interface {
	Role() UserRole
	Identifier() string
	sealedProfile()
}

// StudentProfile creates a mahasiswa row.
type StudentProfile struct {
	NIM           int64
	Name          string
	Semester      *int
	ProgramID     *int64
	SupervisorNIP *string
}

// SupervisorProfile creates a dosbing row.
type SupervisorProfile struct {
	NIP  string
	Name string
}

// CoordinatorProfile creates a koor_mbkm row.
type CoordinatorProfile struct {
	NIP  string
	Name string
}

// AdminStaffProfile creates an admin_siap row.
type AdminStaffProfile struct {
	NIP  string
	Name string
}

func (StudentProfile) Role() UserRole     { return RoleMahasiswa }
func (SupervisorProfile) Role() UserRole  { return RoleDosbing }
func (CoordinatorProfile) Role() UserRole { return RoleKoorMBKM }
func (AdminStaffProfile) Role() UserRole  { return RoleAdminSIAP }

func (p StudentProfile) Identifier() string     { return strconv.FormatInt(p.NIM, 10) }
func (p SupervisorProfile) Identifier() string  { return p.NIP }
func (p CoordinatorProfile) Identifier() string { return p.NIP }
func (p AdminStaffProfile) Identifier() string  { return p.NIP }

func (StudentProfile) sealedProfile()     {}
func (SupervisorProfile) sealedProfile()  {}
func (CoordinatorProfile) sealedProfile() {}
func (AdminStaffProfile) sealedProfile()  {}
