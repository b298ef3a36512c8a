package models

import "time"

// Student is a mahasiswa row keyed by NIM.
type Student struct {
	NIM           int64     `db:"nim" json:"NIM"`
	Name          string    `db:"nama_mahasiswa" json:"nama_mahasiswa"`
	Semester      *int      `db:"semester" json:"semester"`
	ProgramID     *int64    `db:"id_program_mbkm" json:"id_program_mbkm"`
	SupervisorNIP *string   `db:"nip_dosbing" json:"NIP_dosbing"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail adds the joined programme and supervisor names.
type StudentDetail struct {
	Student
	ProgramName    *string `db:"nama_program" json:"nama_program"`
	SupervisorName *string `db:"nama_dosbing" json:"nama_dosbing"`
}
