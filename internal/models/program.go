package models

import "time"

// Program is an MBKM programme offering.
type Program struct {
	ID          int64     `db:"id_program_mbkm" json:"id_program_mbkm"`
	Name        string    `db:"nama_program" json:"nama_program"`
	Partner     *string   `db:"mitra" json:"mitra"`
	Category    *string   `db:"kategori" json:"kategori"`
	Description *string   `db:"deskripsi" json:"deskripsi"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ConversionCourse is a course a registration can be converted into.
type ConversionCourse struct {
	ID        int64     `db:"id_matkul_knvrs" json:"id_matkul_knvrs"`
	Code      *string   `db:"kode_matkul" json:"kode_matkul"`
	Name      string    `db:"nama_matkul" json:"nama_matkul"`
	Credits   *int      `db:"sks" json:"sks"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
