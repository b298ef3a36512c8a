package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/handler"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/internal/service"
	"github.com/si-mbkm/mbkm-api/pkg/config"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

type tokenTable map[string]*models.JWTClaims

func (t tokenTable) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := t[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type programStub struct {
	created int
}

func (s *programStub) List(ctx context.Context) ([]models.Program, error) {
	return []models.Program{{ID: 1, Name: "Magang Bersertifikat"}}, nil
}

func (s *programStub) Get(ctx context.Context, id int64) (*models.Program, error) {
	return &models.Program{ID: id}, nil
}

func (s *programStub) Create(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error) {
	s.created++
	return &models.Program{ID: 2, Name: req.Name}, nil
}

func (s *programStub) Update(ctx context.Context, id int64, req dto.UpdateProgramRequest) (*models.Program, error) {
	return &models.Program{ID: id}, nil
}

func (s *programStub) Delete(ctx context.Context, id int64) error { return nil }

func newTestRouter(t *testing.T, env string) (*gin.Engine, *programStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	programs := &programStub{}
	tokens := tokenTable{
		"koor":  {UserID: "u-1", Role: models.RoleKoorMBKM},
		"admin": {UserID: "u-2", Role: models.RoleAdminSIAP},
		"mhs": {UserID: "u-3", Role: models.RoleMahasiswa, NIPOrNIM: "2101"},
	}
	h := Handlers{
		Auth:          handler.NewAuthHandler(nil),
		Students:      handler.NewStudentHandler(nil),
		Supervisors:   handler.NewStaffHandler(nil),
		Coordinators:  handler.NewStaffHandler(nil),
		AdminStaff:    handler.NewStaffHandler(nil),
		Programs:      handler.NewProgramHandler(programs),
		Courses:       handler.NewCourseHandler(nil),
		Registrations: handler.NewRegistrationHandler(nil),
		Files:         handler.NewFileHandler(nil),
		Grades:        handler.NewGradeConversionHandler(nil),
		Logbooks:      handler.NewLogbookHandler(nil),
		Reports:       handler.NewReportHandler(nil),
		Metrics:       handler.NewMetricsHandler(service.NewMetricsService(), nil),
	}
	r := New(Options{Env: env, APIPrefix: "/api"}, h, tokens, service.NewMetricsService(), nil)
	return r, programs
}

func perform(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpointsArePublic(t *testing.T) {
	r, _ := newTestRouter(t, config.EnvDevelopment)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ready", "", "").Code)

	metrics := perform(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "goroutines_total")
}

func TestReadsRequireAuthentication(t *testing.T) {
	r, _ := newTestRouter(t, config.EnvDevelopment)

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/api/program-mbkm", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/api/program-mbkm", "forged", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/api/program-mbkm", "mhs", "").Code)
}

func TestWriteRolesAreEnforced(t *testing.T) {
	r, programs := newTestRouter(t, config.EnvDevelopment)
	payload := `{"nama_program":"Studi Independen"}`

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodPost, "/api/program-mbkm", "mhs", payload).Code)
	assert.Equal(t, 0, programs.created)

	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/api/program-mbkm", "admin", payload).Code)
	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/api/program-mbkm", "koor", payload).Code)
	assert.Equal(t, 2, programs.created)
}

func TestRoleTableRejectsBeforeHandlers(t *testing.T) {
	r, _ := newTestRouter(t, config.EnvDevelopment)

	cases := []struct {
		method, path, token string
	}{
		{http.MethodPost, "/api/mahasiswa", "admin"},
		{http.MethodDelete, "/api/dosbing/1987", "mhs"},
		{http.MethodPost, "/api/matkul-knvrs", "admin"},
		{http.MethodPost, "/api/berkas-penilaian", "koor"},
		{http.MethodPost, "/api/konversi-nilai", "admin"},
		{http.MethodPost, "/api/logbook", "koor"},
		{http.MethodPost, "/api/pendaftaran-mbkm", "admin"},
		{http.MethodGet, "/api/reports/pendaftaran-mbkm", "mhs"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, perform(r, tc.method, tc.path, tc.token, "{}").Code)
		})
	}
}

func TestGradeReadsExcludeStudents(t *testing.T) {
	r, _ := newTestRouter(t, config.EnvDevelopment)

	for _, path := range []string{"/api/konversi-nilai", "/api/konversi-nilai/1"} {
		w := perform(r, http.MethodGet, path, "mhs", "")
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	}
}

func TestDocsHiddenInProduction(t *testing.T) {
	r, _ := newTestRouter(t, config.EnvProduction)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/docs/index.html", "", "").Code)
}
