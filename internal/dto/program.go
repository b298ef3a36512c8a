package dto

// CreateProgramRequest is the payload for POST /program-mbkm.
type CreateProgramRequest struct {
	Name        string  `json:"nama_program" validate:"required"`
	Partner     *string `json:"mitra"`
	Category    *string `json:"kategori"`
	Description *string `json:"deskripsi"`
}

// UpdateProgramRequest overwrites only the supplied fields.
type UpdateProgramRequest struct {
	Name        *string `json:"nama_program" validate:"omitempty,min=1"`
	Partner     *string `json:"mitra"`
	Category    *string `json:"kategori"`
	Description *string `json:"deskripsi"`
}

// CreateCourseRequest is the payload for POST /matkul-knvrs.
type CreateCourseRequest struct {
	Code    *string `json:"kode_matkul"`
	Name    string  `json:"nama_matkul" validate:"required"`
	Credits *int    `json:"sks" validate:"omitempty,min=1,max=24"`
}

// UpdateCourseRequest overwrites only the supplied fields.
type UpdateCourseRequest struct {
	Code    *string `json:"kode_matkul"`
	Name    *string `json:"nama_matkul" validate:"omitempty,min=1"`
	Credits *int    `json:"sks" validate:"omitempty,min=1,max=24"`
}
