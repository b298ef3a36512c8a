package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object is the stable reference returned for stored bytes.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store persists uploaded bytes and removes them again by key.
type Store interface {
	Put(ctx context.Context, folder, filename, contentType string, r io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free key below folder that keeps the original extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102"), uuid.NewString(), ext)
	folder = strings.Trim(path.Clean("/"+strings.ReplaceAll(folder, "\\", "/")), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
