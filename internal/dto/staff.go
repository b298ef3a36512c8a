package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/si-mbkm/mbkm-api/internal/models"
)

// StaffRequest carries the fields shared by the dosbing, koor_mbkm and admin_siap tables.
type StaffRequest struct {
	NIP  *string
	Name *string
}

// StaffFields is the dereferenced form of StaffRequest checked before an insert.
type StaffFields struct {
	NIP  string `validate:"required,max=64"`
	Name string `validate:"required,max=255"`
}

// Fields returns the request values, with absent keys as empty strings.
func (r StaffRequest) Fields() StaffFields {
	var fields StaffFields
	if r.NIP != nil {
		fields.NIP = *r.NIP
	}
	if r.Name != nil {
		fields.Name = *r.Name
	}
	return fields
}

// DecodeStaff reads a staff payload using the JSON keys of kind, e.g. NIP_dosbing and nama_dosbing.
func DecodeStaff(kind models.StaffKind, body []byte) (StaffRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return StaffRequest{}, err
	}
	var req StaffRequest
	var err error
	if req.NIP, err = optionalString(raw, kind.KeyField); err != nil {
		return StaffRequest{}, err
	}
	if req.Name, err = optionalString(raw, kind.NameField); err != nil {
		return StaffRequest{}, err
	}
	return req, nil
}

func optionalString(raw map[string]json.RawMessage, key string) (*string, error) {
	value, ok := raw[key]
	if !ok || string(value) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		var n json.Number
		if errNum := json.Unmarshal(value, &n); errNum != nil {
			return nil, fmt.Errorf("%s must be a string", key)
		}
		s = n.String()
	}
	s = strings.TrimSpace(s)
	return &s, nil
}
