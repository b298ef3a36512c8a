package dto

// CreateStudentRequest is the payload for POST /mahasiswa.
type CreateStudentRequest struct {
	NIM           int64   `json:"NIM" validate:"required,gt=0"`
	Name          string  `json:"nama_mahasiswa" validate:"required"`
	Semester      *int    `json:"semester" validate:"omitempty,min=1,max=14"`
	ProgramID     *int64  `json:"id_program_mbkm"`
	SupervisorNIP *string `json:"NIP_dosbing"`
}

// UpdateStudentRequest overwrites only the supplied fields.
type UpdateStudentRequest struct {
	Name          *string `json:"nama_mahasiswa" validate:"omitempty,min=1"`
	Semester      *int    `json:"semester" validate:"omitempty,min=1,max=14"`
	ProgramID     *int64  `json:"id_program_mbkm"`
	SupervisorNIP *string `json:"NIP_dosbing"`
}
