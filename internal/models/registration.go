package models

import "time"

// RegistrationStatus tracks a registration through review.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

// Registration is a row of pendaftaran_mbkm.
type Registration struct {
	ID            int64              `db:"id_pendaftaran_mbkm" json:"id_pendaftaran_mbkm"`
	NIM           int64              `db:"nim" json:"NIM"`
	ProgramID     int64              `db:"id_program_mbkm" json:"id_program_mbkm"`
	SupervisorNIP *string            `db:"nip_dosbing" json:"NIP_dosbing"`
	Date          time.Time          `db:"tanggal" json:"tanggal"`
	Status        RegistrationStatus `db:"status" json:"status"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

// RegistrationStudent is the student summary embedded in a registration detail.
type RegistrationStudent struct {
	NIM      int64  `json:"NIM"`
	Name     string `json:"nama_mahasiswa"`
	Semester *int   `json:"semester"`
}

// RegistrationProgram is the programme summary embedded in a registration detail.
type RegistrationProgram struct {
	ID      int64   `json:"id_program_mbkm"`
	Name    string  `json:"nama_program"`
	Partner *string `json:"mitra"`
}

// RegistrationSupervisor is the supervisor summary embedded in a registration detail.
type RegistrationSupervisor struct {
	NIP  string `json:"NIP_dosbing"`
	Name string `json:"nama_dosbing"`
}

// RegistrationDetail is a registration with its references resolved.
type RegistrationDetail struct {
	Registration
	Student    RegistrationStudent     `json:"mahasiswa"`
	Program    RegistrationProgram     `json:"program_mbkm"`
	Supervisor *RegistrationSupervisor `json:"dosbing"`
	Courses    []ConversionCourse      `json:"matkul_knvrs"`
}

// RegistrationFilter narrows registration listings.
type RegistrationFilter struct {
	Status    *RegistrationStatus
	ProgramID *int64
	NIM       *int64
}
