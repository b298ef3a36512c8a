package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

const sniffLen = 3072

// Validator enforces the upload size limit and sniffs content against an allow-list.
type Validator struct {
	maxSize int64
	allowed []string
}

// NewValidator builds a validator. An empty allow-list accepts every type.
func NewValidator(maxSize int64, allowed []string) *Validator {
	return &Validator{maxSize: maxSize, allowed: allowed}
}

// Check verifies size and content. The returned reader replays the sniffed prefix.
func (v *Validator) Check(r io.Reader, size int64) (string, io.Reader, error) {
	if v.maxSize > 0 && size > v.maxSize {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", v.maxSize))
	}
	if size == 0 {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !v.allowedType(detected) {
		return "", nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", detected.String()))
	}

	return detected.String(), io.MultiReader(bytes.NewReader(head), r), nil
}

func (v *Validator) allowedType(detected *mimetype.MIME) bool {
	if len(v.allowed) == 0 {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), v.allowed...) {
			return true
		}
	}
	return false
}
