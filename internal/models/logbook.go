package models

import "time"

// Logbook is a weekly activity entry written by a student.
type Logbook struct {
	ID         int64     `db:"id_logbook" json:"id_logbook"`
	NIM        int64     `db:"nim" json:"NIM"`
	Title      string    `db:"judul" json:"judul"`
	Subject    *string   `db:"subjek" json:"subjek"`
	FileURL    *string   `db:"nama_file" json:"nama_file"`
	StorageKey *string   `db:"storage_key" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LogbookDetail adds the author's name.
type LogbookDetail struct {
	Logbook
	StudentName *string `db:"nama_mahasiswa" json:"nama_mahasiswa"`
}
