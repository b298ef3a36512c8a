package dto

import (
	"fmt"
	"strings"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

// RegisterRequest is the role-tagged account registration payload. Only the
// identifier matching Role is read.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"required"`
	NIPDosbing   string `json:"NIP_dosbing"`
	NIPAdminSIAP string `json:"NIP_admin_siap"`
	NIPKoorMBKM  string `json:"NIP_koor_mbkm"`
	NIM          *int64 `json:"NIM"`
	Semester     *int   `json:"semester"`
	ProgramID    *int64 `json:"id_program_mbkm"`
}

// ErrInvalidRole is returned by Profile for an unknown role value.
var ErrInvalidRole = fmt.Errorf("invalid role")

// Profile converts the payload into the role-specific row to create.
func (r RegisterRequest) Profile() (models.Profile, error) {
	role := models.UserRole(strings.TrimSpace(r.Role))
	name := strings.TrimSpace(r.Name)
	switch role {
	case models.RoleMahasiswa:
		if r.NIM == nil || *r.NIM <= 0 {
			return nil, fmt.Errorf("NIM is required for role %s", role)
		}
		profile := models.StudentProfile{NIM: *r.NIM, Name: name, Semester: r.Semester, ProgramID: r.ProgramID}
		if nip := strings.TrimSpace(r.NIPDosbing); nip != "" {
			profile.SupervisorNIP = &nip
		}
		return profile, nil
	case models.RoleDosbing:
		if nip := strings.TrimSpace(r.NIPDosbing); nip != "" {
			return models.SupervisorProfile{NIP: nip, Name: name}, nil
		}
		return nil, fmt.Errorf("NIP_dosbing is required for role %s", role)
	case models.RoleKoorMBKM:
		if nip := strings.TrimSpace(r.NIPKoorMBKM); nip != "" {
			return models.CoordinatorProfile{NIP: nip, Name: name}, nil
		}
		return nil, fmt.Errorf("NIP_koor_mbkm is required for role %s", role)
	case models.RoleAdminSIAP:
		if nip := strings.TrimSpace(r.NIPAdminSIAP); nip != "" {
			return models.AdminStaffProfile{NIP: nip, Name: name}, nil
		}
		return nil, fmt.Errorf("NIP_admin_siap is required for role %s", role)
	}
	return nil, ErrInvalidRole
}
