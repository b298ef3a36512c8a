package models

import "time"

// ConversionStatus tracks a grade conversion through review.
type ConversionStatus string

const (
	ConversionPending  ConversionStatus = "pending"
	ConversionApproved ConversionStatus = "approved"
	ConversionRejected ConversionStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ConversionStatus) Valid() bool {
	switch s {
	case ConversionPending, ConversionApproved, ConversionRejected:
		return true
	}
	return false
}

// GradeConversion is a row of konversi_nilai.
type GradeConversion struct {
	ID            int64            `db:"id_konversi_nilai" json:"id_konversi_nilai"`
	NIM           int64            `db:"nim" json:"NIM"`
	FileID        int64            `db:"id_berkas_penilaian" json:"id_berkas_penilaian"`
	SupervisorNIP *string          `db:"nip_dosbing" json:"NIP_dosbing"`
	FinalScore    *float64         `db:"nilai_akhir" json:"nilai_akhir"`
	Grade         *string          `db:"grade" json:"grade"`
	Status        ConversionStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// GradeFromScore maps a 0-100 score onto the university letter scale.
func GradeFromScore(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "E"
	}
}
