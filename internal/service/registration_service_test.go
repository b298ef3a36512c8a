package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

func newRegistrationService() (*RegistrationService, *fakeRegistrationRepo) {
	repo := newFakeRegistrationRepo()
	svc := NewRegistrationService(repo, newFakeRefs(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func studentClaims(nim string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-" + nim, Role: models.RoleMahasiswa, NIPOrNIM: nim}
}

func coordinatorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "koor", Role: models.RoleKoorMBKM, NIPOrNIM: "7701"}
}

func TestRegistrationServiceCreateWithCourses(t *testing.T) {
	svc, repo := newRegistrationService()

	detail, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{
		NIM: 2101, ProgramID: 1, Courses: dto.CourseRefs{1, 2, 2},
	}, studentClaims("2101"))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, detail.Status)
	assert.Equal(t, time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC), detail.Date)
	assert.Equal(t, []int64{1, 2}, repo.links[detail.ID])
	assert.Len(t, detail.Courses, 2)
}

func TestRegistrationServiceCreateUnknownStudentWritesNothing(t *testing.T) {
	svc, repo := newRegistrationService()

	_, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 9999, ProgramID: 1}, coordinatorClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "student not found", appErr.Message)
	assert.Zero(t, repo.creates)
}

func TestRegistrationServiceCreateReferenceErrors(t *testing.T) {
	supervisor := "0000"
	cases := []struct {
		name    string
		req     dto.CreateRegistrationRequest
		message string
	}{
		{"program", dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 42}, "program mbkm not found"},
		{"supervisor", dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1, SupervisorNIP: &supervisor}, "supervisor not found"},
		{"course", dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1, Courses: dto.CourseRefs{1, 99}}, "conversion course not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newRegistrationService()
			_, err := svc.Create(context.Background(), tc.req, coordinatorClaims())
			require.Error(t, err)
			assert.Equal(t, tc.message, appErrors.FromError(err).Message)
			assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
			assert.Zero(t, repo.creates)
		})
	}
}

func TestRegistrationServiceCreateRejectsInvalidStatus(t *testing.T) {
	svc, repo := newRegistrationService()
	status := "maybe"

	_, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1, Status: &status}, coordinatorClaims())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, repo.creates)
}

func TestRegistrationServiceStudentCannotRegisterOthers(t *testing.T) {
	svc, repo := newRegistrationService()

	_, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 2102, ProgramID: 1}, studentClaims("2101"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	assert.Zero(t, repo.creates)
}

func TestRegistrationServiceStudentWithoutNIMIsForbidden(t *testing.T) {
	svc, repo := newRegistrationService()

	_, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1}, studentClaims(""))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	assert.Equal(t, "student account has no NIM", appErrors.FromError(err).Message)
	assert.Zero(t, repo.creates)
}

func TestRegistrationServiceListByNIMEmpty(t *testing.T) {
	svc, _ := newRegistrationService()

	_, err := svc.ListByNIM(context.Background(), 2101)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "No Pendaftaran MBKM found for this NIM", appErr.Message)
}

func TestRegistrationServiceUpdateReplacesCourses(t *testing.T) {
	svc, repo := newRegistrationService()
	created, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1, Courses: dto.CourseRefs{1, 2}}, coordinatorClaims())
	require.NoError(t, err)

	status := "approved"
	empty := dto.CourseRefs{}
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateRegistrationRequest{Status: &status, Courses: &empty}, coordinatorClaims())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, updated.Status)
	assert.Empty(t, updated.Courses)
	assert.Empty(t, repo.links[created.ID])

	unchanged, err := svc.Update(context.Background(), created.ID, dto.UpdateRegistrationRequest{}, coordinatorClaims())
	require.NoError(t, err)
	assert.Empty(t, unchanged.Courses)
}

func TestRegistrationServiceUpdateValidatesChangedReferences(t *testing.T) {
	svc, repo := newRegistrationService()
	created, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1}, coordinatorClaims())
	require.NoError(t, err)

	program := int64(77)
	_, err = svc.Update(context.Background(), created.ID, dto.UpdateRegistrationRequest{ProgramID: &program}, coordinatorClaims())
	require.Error(t, err)
	assert.Equal(t, "program mbkm not found", appErrors.FromError(err).Message)
	assert.Zero(t, repo.updates)

	_, err = svc.Update(context.Background(), 404, dto.UpdateRegistrationRequest{}, coordinatorClaims())
	require.Error(t, err)
	assert.Equal(t, "registration not found", appErrors.FromError(err).Message)
}

func TestRegistrationServiceDelete(t *testing.T) {
	svc, _ := newRegistrationService()
	created, err := svc.Create(context.Background(), dto.CreateRegistrationRequest{NIM: 2101, ProgramID: 1}, coordinatorClaims())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, studentClaims("2102"))
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, svc.Delete(context.Background(), created.ID, studentClaims("2101")))
	err = svc.Delete(context.Background(), created.ID, coordinatorClaims())
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestRegistrationServiceListRejectsUnknownStatus(t *testing.T) {
	svc, _ := newRegistrationService()
	status := models.RegistrationStatus("done")

	_, err := svc.List(context.Background(), models.RegistrationFilter{Status: &status})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
