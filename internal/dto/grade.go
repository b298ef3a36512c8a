package dto

// CreateGradeConversionRequest is the payload for POST /konversi-nilai. The
// student is taken from the referenced file.
type CreateGradeConversionRequest struct {
	FileID        int64    `json:"id_berkas_penilaian" validate:"required,gt=0"`
	SupervisorNIP *string  `json:"NIP_dosbing"`
	FinalScore    *float64 `json:"nilai_akhir" validate:"omitempty,min=0,max=100"`
	Grade         *string  `json:"grade" validate:"omitempty,max=4"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// UpdateGradeConversionRequest overwrites only the supplied fields.
type UpdateGradeConversionRequest struct {
	SupervisorNIP *string  `json:"NIP_dosbing"`
	FinalScore    *float64 `json:"nilai_akhir" validate:"omitempty,min=0,max=100"`
	Grade         *string  `json:"grade" validate:"omitempty,max=4"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
