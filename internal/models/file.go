package models

import "time"

// FileCategory classifies an uploaded assessment file.
type FileCategory string

const (
	FileCV          FileCategory = "CV"
	FileTranscript  FileCategory = "transkrip"
	FileIDCard      FileCategory = "KTP"
	FileCertificate FileCategory = "sertifikat"
	FileOther       FileCategory = "dokumen_tambahan"
)

// Valid reports whether c is a known category.
func (c FileCategory) Valid() bool {
	switch c {
	case FileCV, FileTranscript, FileIDCard, FileCertificate, FileOther:
		return true
	}
	return false
}

// AssessmentFile is a row of berkas_penilaian. Only the stored reference is kept, never the bytes.
type AssessmentFile struct {
	ID         int64        `db:"id_berkas_penilaian" json:"id_berkas_penilaian"`
	NIM        int64        `db:"nim" json:"NIM"`
	URL        string       `db:"nama_berkas" json:"nama_berkas"`
	Category   FileCategory `db:"jenis_berkas" json:"jenis_berkas"`
	StorageKey *string      `db:"storage_key" json:"-"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// FileFilter narrows assessment file listings.
type FileFilter struct {
	Category *FileCategory
	NIM      *int64
}
