package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/si-mbkm/mbkm-api/pkg/config"
)

// OSSStore keeps objects in an Alibaba Cloud OSS bucket.
type OSSStore struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

// NewOSSStore connects to the configured bucket.
func NewOSSStore(cfg config.OSSConfig) (*OSSStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("oss endpoint and bucket are required")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %s: %w", cfg.Bucket, err)
	}
	return &OSSStore{
		bucket:     bucket,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: cfg.PublicBaseURL,
	}, nil
}

// Put uploads r under a generated key and returns its public URL.
func (s *OSSStore) Put(ctx context.Context, folder, filename, contentType string, r io.Reader) (Object, error) {
	key := ObjectKey(folder, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	}
	if err := s.bucket.PutObject(key, r, opts...); err != nil {
		return Object{}, fmt.Errorf("oss put %s: %w", key, err)
	}
	return Object{Key: key, URL: s.PublicURL(key)}, nil
}

// Delete removes the object. Missing objects are not an error.
func (s *OSSStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("oss delete %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL clients use to fetch key.
func (s *OSSStore) PublicURL(key string) string {
	return publicURL(s.publicBase, s.endpoint, s.bucketName, key)
}

func publicURL(base, endpoint, bucket, key string) string {
	if base != "" {
		return joinURL(base, key)
	}
	host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", bucket, host, key)
}
