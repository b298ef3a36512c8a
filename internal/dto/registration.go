package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CourseRef is one entry of matkul_knvrs. It accepts 12, "12" or {"id_matkul_knvrs": 12}.
type CourseRef int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *CourseRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID json.RawMessage `json:"id_matkul_knvrs"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if len(obj.ID) == 0 {
			return fmt.Errorf("matkul_knvrs entry is missing id_matkul_knvrs")
		}
		data = bytes.TrimSpace(obj.ID)
	}
	id, err := parseID(data)
	if err != nil {
		return err
	}
	*c = CourseRef(id)
	return nil
}

func parseID(data []byte) (int64, error) {
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		if id, err := number.Int64(); err == nil && id > 0 {
			return id, nil
		}
		return 0, fmt.Errorf("invalid course id %s", number)
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return 0, fmt.Errorf("invalid course id %s", string(data))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid course id %q", text)
	}
	return id, nil
}

// CourseRefs is the full matkul_knvrs list.
type CourseRefs []CourseRef

// IDs returns the course ids in first-seen order with duplicates removed.
func (refs CourseRefs) IDs() []int64 {
	seen := make(map[int64]struct{}, len(refs))
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id := int64(ref)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// CreateRegistrationRequest is the payload for POST /pendaftaran-mbkm.
type CreateRegistrationRequest struct {
	NIM           int64      `json:"NIM" validate:"required,gt=0"`
	ProgramID     int64      `json:"id_program_mbkm" validate:"required,gt=0"`
	SupervisorNIP *string    `json:"NIP_dosbing"`
	Date          *Date      `json:"tanggal"`
	Status        *string    `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Courses       CourseRefs `json:"matkul_knvrs"`
}

// UpdateRegistrationRequest overwrites only the supplied fields. A present
// matkul_knvrs, even an empty one, replaces every course selection.
type UpdateRegistrationRequest struct {
	NIM           *int64      `json:"NIM" validate:"omitempty,gt=0"`
	ProgramID     *int64      `json:"id_program_mbkm" validate:"omitempty,gt=0"`
	SupervisorNIP *string     `json:"NIP_dosbing"`
	Date          *Date       `json:"tanggal"`
	Status        *string     `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Courses       *CourseRefs `json:"matkul_knvrs"`
}
