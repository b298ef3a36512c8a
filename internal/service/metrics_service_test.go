package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceRecordsUploadsAndCache(t *testing.T) {
	m := NewMetricsService()

	m.RecordUpload("CV", 2048)
	m.RecordUpload("CV", 1024)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveDBQuery("registration_list", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploadsTotal.WithLabelValues("CV")))
	assert.Equal(t, 3072.0, testutil.ToFloat64(m.uploadBytes.WithLabelValues("CV")))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.cacheHitRatio))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "db_query_duration_seconds")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordUpload("KTP", 1)
	m.ObserveDBQuery("x", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
