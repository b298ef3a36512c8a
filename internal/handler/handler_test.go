package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/middleware"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/internal/service"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type registrationServiceMock struct {
	lastFilter models.RegistrationFilter
	lastCreate dto.CreateRegistrationRequest
	lastActor  *models.JWTClaims
	listNIMErr error
	createErr  error
}

func (m *registrationServiceMock) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error) {
	m.lastFilter = filter
	return []models.RegistrationDetail{}, nil
}

func (m *registrationServiceMock) ListByNIM(ctx context.Context, nim int64) ([]models.RegistrationDetail, error) {
	if m.listNIMErr != nil {
		return nil, m.listNIMErr
	}
	return []models.RegistrationDetail{{Registration: models.Registration{ID: 1, NIM: nim}}}, nil
}

func (m *registrationServiceMock) Get(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	return &models.RegistrationDetail{Registration: models.Registration{ID: id}}, nil
}

func (m *registrationServiceMock) Create(ctx context.Context, req dto.CreateRegistrationRequest, actor *models.JWTClaims) (*models.RegistrationDetail, error) {
	m.lastCreate = req
	m.lastActor = actor
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.RegistrationDetail{Registration: models.Registration{ID: 7, NIM: req.NIM, ProgramID: req.ProgramID}}, nil
}

func (m *registrationServiceMock) Update(ctx context.Context, id int64, req dto.UpdateRegistrationRequest, actor *models.JWTClaims) (*models.RegistrationDetail, error) {
	return &models.RegistrationDetail{Registration: models.Registration{ID: id}}, nil
}

func (m *registrationServiceMock) Delete(ctx context.Context, id int64, actor *models.JWTClaims) error {
	return nil
}

func TestRegistrationHandlerCreate(t *testing.T) {
	svc := &registrationServiceMock{}
	h := NewRegistrationHandler(svc)

	c, w := newGinContext(http.MethodPost, "/pendaftaran-mbkm", []byte(`{"NIM":2101,"id_program_mbkm":1,"matkul_knvrs":[1,"2",{"id_matkul_knvrs":2}]}`))
	claims := &models.JWTClaims{UserID: "u-1", Role: models.RoleMahasiswa, NIPOrNIM: "2101"}
	c.Set(middleware.ContextUserKey, claims)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []int64{1, 2}, svc.lastCreate.Courses.IDs())
	assert.Same(t, claims, svc.lastActor)

	var body struct {
		Message string                    `json:"message"`
		Data    models.RegistrationDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.Data.ID)
	assert.Equal(t, "Pendaftaran MBKM created", body.Message)
}

func TestRegistrationHandlerCreateInvalidBody(t *testing.T) {
	svc := &registrationServiceMock{}
	h := NewRegistrationHandler(svc)

	c, w := newGinContext(http.MethodPost, "/pendaftaran-mbkm", []byte(`{"NIM":`))
	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid registration payload", decodeError(t, w).Message)
	assert.Zero(t, svc.lastCreate.NIM)
}

func TestRegistrationHandlerServiceErrorStatus(t *testing.T) {
	svc := &registrationServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "student not found")}
	h := NewRegistrationHandler(svc)

	c, w := newGinContext(http.MethodPost, "/pendaftaran-mbkm", []byte(`{"NIM":9999,"id_program_mbkm":1}`))
	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "student not found", body.Message)
	assert.Equal(t, appErrors.ErrValidation.Code, body.Code)
}

func TestRegistrationHandlerListFilters(t *testing.T) {
	svc := &registrationServiceMock{}
	h := NewRegistrationHandler(svc)

	c, w := newGinContext(http.MethodGet, "/pendaftaran-mbkm?status=approved&id_program_mbkm=3", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.Status)
	assert.Equal(t, models.RegistrationApproved, *svc.lastFilter.Status)
	require.NotNil(t, svc.lastFilter.ProgramID)
	assert.Equal(t, int64(3), *svc.lastFilter.ProgramID)

	c, w = newGinContext(http.MethodGet, "/pendaftaran-mbkm?id_program_mbkm=abc", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegistrationHandlerListByStudentNotFound(t *testing.T) {
	svc := &registrationServiceMock{listNIMErr: appErrors.Clone(appErrors.ErrNotFound, "No Pendaftaran MBKM found for this NIM")}
	h := NewRegistrationHandler(svc)

	c, w := newGinContext(http.MethodGet, "/mahasiswa/2101/pendaftaran-mbkm", nil)
	c.Params = gin.Params{{Key: "nim", Value: "2101"}}
	h.ListByStudent(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No Pendaftaran MBKM found for this NIM", decodeError(t, w).Message)
}

func TestRegistrationHandlerRejectsBadID(t *testing.T) {
	h := NewRegistrationHandler(&registrationServiceMock{})

	c, w := newGinContext(http.MethodGet, "/pendaftaran-mbkm/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.Get(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decodeError(t, w).Message)
}

type staffServiceMock struct {
	kind       models.StaffKind
	lastCreate dto.StaffRequest
}

func (m *staffServiceMock) Kind() models.StaffKind { return m.kind }

func (m *staffServiceMock) List(ctx context.Context) ([]models.Staff, error) {
	return []models.Staff{{Kind: m.kind, NIP: "1987", Name: "Dr. Rina"}}, nil
}

func (m *staffServiceMock) Get(ctx context.Context, nip string) (*models.Staff, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, m.kind.Label+" not found")
}

func (m *staffServiceMock) Create(ctx context.Context, req dto.StaffRequest) (*models.Staff, error) {
	m.lastCreate = req
	return &models.Staff{Kind: m.kind, NIP: *req.NIP, Name: *req.Name}, nil
}

func (m *staffServiceMock) Update(ctx context.Context, nip string, req dto.StaffRequest) (*models.Staff, error) {
	return &models.Staff{Kind: m.kind, NIP: nip}, nil
}

func (m *staffServiceMock) Delete(ctx context.Context, nip string) error { return nil }

func TestStaffHandlerUsesKindKeys(t *testing.T) {
	svc := &staffServiceMock{kind: models.KindCoordinator}
	h := NewStaffHandler(svc)

	c, w := newGinContext(http.MethodPost, "/koor-mbkm", []byte(`{"NIP_koor_mbkm":"1975","nama_koor_mbkm":"Budi"}`))
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.lastCreate.NIP)
	assert.Equal(t, "1975", *svc.lastCreate.NIP)

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1975", body.Data["NIP_koor_mbkm"])
	assert.Equal(t, "Budi", body.Data["nama_koor_mbkm"])
}

func TestStaffHandlerGetNotFound(t *testing.T) {
	h := NewStaffHandler(&staffServiceMock{kind: models.KindSupervisor})

	c, w := newGinContext(http.MethodGet, "/dosbing/1", nil)
	c.Params = gin.Params{{Key: "nip", Value: "1"}}
	h.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "supervisor not found", decodeError(t, w).Message)
}

func TestStaffHandlerRejectsMalformedBody(t *testing.T) {
	h := NewStaffHandler(&staffServiceMock{kind: models.KindAdminStaff})

	c, w := newGinContext(http.MethodPost, "/admin-siap", []byte(`[1,2]`))
	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid admin_siap payload", decodeError(t, w).Message)
}

type fileServiceMock struct {
	lastReq     dto.UploadFileRequest
	lastName    string
	lastContent []byte
	lastFilter  models.FileFilter
}

func (m *fileServiceMock) List(ctx context.Context, filter models.FileFilter) ([]models.AssessmentFile, error) {
	m.lastFilter = filter
	return nil, nil
}

func (m *fileServiceMock) Get(ctx context.Context, id int64) (*models.AssessmentFile, error) {
	return &models.AssessmentFile{ID: id}, nil
}

func (m *fileServiceMock) Upload(ctx context.Context, req dto.UploadFileRequest, upload dto.Upload, actor *models.JWTClaims) (*models.AssessmentFile, error) {
	m.lastReq = req
	m.lastName = upload.Filename
	if upload.Content != nil {
		content, err := io.ReadAll(upload.Content)
		if err != nil {
			return nil, err
		}
		m.lastContent = content
	}
	return &models.AssessmentFile{ID: 4, NIM: 2101, Category: models.FileCategory(req.Category)}, nil
}

func (m *fileServiceMock) Delete(ctx context.Context, id int64, actor *models.JWTClaims) error {
	return nil
}

func TestFileHandlerUploadMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fileServiceMock{}
	h := NewFileHandler(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("jenis_berkas", "CV"))
	part, err := writer.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/berkas-penilaian", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Role: models.RoleMahasiswa, NIPOrNIM: "2101"})

	h.Upload(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "CV", svc.lastReq.Category)
	assert.Equal(t, "cv.pdf", svc.lastName)
	assert.Equal(t, "%PDF-1.4 test", string(svc.lastContent))
}

func TestFileHandlerListFilters(t *testing.T) {
	svc := &fileServiceMock{}
	h := NewFileHandler(svc)

	c, w := newGinContext(http.MethodGet, "/berkas-penilaian?jenis_berkas=transkrip&nim=2101", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.Category)
	assert.Equal(t, models.FileTranscript, *svc.lastFilter.Category)
	require.NotNil(t, svc.lastFilter.NIM)
	assert.Equal(t, int64(2101), *svc.lastFilter.NIM)
}

type exportServiceMock struct {
	lastFormat string
	err        error
}

func (m *exportServiceMock) Registrations(ctx context.Context, rawFormat string, filter models.RegistrationFilter) (*service.ExportResult, error) {
	m.lastFormat = rawFormat
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportResult{Filename: "pendaftaran_mbkm.csv", ContentType: "text/csv", Content: []byte("ID,NIM\n")}, nil
}

func TestReportHandlerRegistrations(t *testing.T) {
	svc := &exportServiceMock{}
	h := NewReportHandler(svc)

	c, w := newGinContext(http.MethodGet, "/reports/pendaftaran-mbkm", nil)
	h.Registrations(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", svc.lastFormat)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pendaftaran_mbkm.csv")
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "ID,NIM\n", w.Body.String())
}

func TestReportHandlerUnknownFormat(t *testing.T) {
	svc := &exportServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")}
	h := NewReportHandler(svc)

	c, w := newGinContext(http.MethodGet, "/reports/pendaftaran-mbkm?format=xlsx", nil)
	h.Registrations(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "xlsx", svc.lastFormat)
}

type authServiceMock struct{}

func (authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return nil, appErrors.ErrInvalidCredentials
}

func (authServiceMock) Register(ctx context.Context, req dto.RegisterRequest) (*models.RegisterResponse, error) {
	return &models.RegisterResponse{Token: "t", ExpiresIn: 3600}, nil
}

func (authServiceMock) Me(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	return &models.UserInfo{ID: claims.UserID, Role: claims.Role}, nil
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	h := NewAuthHandler(authServiceMock{})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"a@b.c","password":"x"}`))
	h.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decodeError(t, w).Message)
}

func TestAuthHandlerRegisterCreated(t *testing.T) {
	h := NewAuthHandler(authServiceMock{})

	c, w := newGinContext(http.MethodPost, "/auth/register", []byte(`{"name":"A","email":"a@b.c","password":"secret","role":"dosbing","NIP_dosbing":"1"}`))
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandlerMeRequiresClaims(t *testing.T) {
	h := NewAuthHandler(authServiceMock{})

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleKoorMBKM})
	h.Me(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, pingerFunc(func(context.Context) error { return errors.New("connection refused") }))
	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h = NewMetricsHandler(nil, pingerFunc(func(context.Context) error { return nil }))
	c, w = newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
