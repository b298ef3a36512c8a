package models

import (
	"encoding/json"
	"time"
)

// StaffKind describes one of the three NIP-keyed staff tables.
type StaffKind struct {
	Label      string
	Table      string
	KeyColumn  string
	NameColumn string
	KeyField   string
	NameField  string
}

var (
	KindSupervisor = StaffKind{
		Label: "supervisor", Table: "dosbing",
		KeyColumn: "nip_dosbing", NameColumn: "nama_dosbing",
		KeyField: "NIP_dosbing", NameField: "nama_dosbing",
	}
	KindCoordinator = StaffKind{
		Label: "coordinator", Table: "koor_mbkm",
		KeyColumn: "nip_koor_mbkm", NameColumn: "nama_koor_mbkm",
		KeyField: "NIP_koor_mbkm", NameField: "nama_koor_mbkm",
	}
	KindAdminStaff = StaffKind{
		Label: "admin staff", Table: "admin_siap",
		KeyColumn: "nip_admin_siap", NameColumn: "nama_admin_siap",
		KeyField: "NIP_admin_siap", NameField: "nama_admin_siap",
	}
)

// Staff is a row of any staff table. JSON keys follow the table's own column names.
type Staff struct {
	Kind      StaffKind `db:"-" json:"-"`
	NIP       string    `db:"nip" json:"-"`
	Name      string    `db:"nama" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// MarshalJSON emits e.g. {"NIP_dosbing": "...", "nama_dosbing": "..."}.
func (s Staff) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		s.Kind.KeyField:  s.NIP,
		s.Kind.NameField: s.Name,
		"created_at":     s.CreatedAt,
		"updated_at":     s.UpdatedAt,
	})
}
