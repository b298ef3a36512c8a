package dto

import "io"

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadFileRequest is the form for POST /berkas-penilaian.
type UploadFileRequest struct {
	NIM      int64  `form:"NIM"`
	Category string `form:"jenis_berkas" validate:"required"`
}

// CreateLogbookRequest is the form or JSON payload for POST /logbook.
type CreateLogbookRequest struct {
	NIM     int64   `form:"NIM" json:"NIM"`
	Title   string  `form:"judul" json:"judul" validate:"required"`
	Subject *string `form:"subjek" json:"subjek"`
}

// UpdateLogbookRequest overwrites only the supplied fields.
type UpdateLogbookRequest struct {
	Title   *string `form:"judul" json:"judul" validate:"omitempty,min=1"`
	Subject *string `form:"subjek" json:"subjek"`
}
