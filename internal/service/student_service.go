package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindByNIM(ctx context.Context, nim int64) (*models.StudentDetail, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, nim int64, changes map[string]interface{}) error
	Delete(ctx context.Context, nim int64) ([]string, error)
}

type referenceChecker interface {
	StudentExists(ctx context.Context, nim int64) (bool, error)
	ProgramExists(ctx context.Context, id int64) (bool, error)
	SupervisorExists(ctx context.Context, nip string) (bool, error)
	MissingCourseIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// StudentService handles mahasiswa records.
type StudentService struct {
	repo      studentRepository
	refs      referenceChecker
	queue     jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, refs referenceChecker, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, refs: refs, queue: queue, validator: validate, logger: logger}
}

// List returns students with programme and supervisor names.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list students")
	}
	return students, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, nim int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByNIM(ctx, nim)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	supervisor := trimmedOrNil(req.SupervisorNIP)
	if err := s.checkReferences(ctx, req.ProgramID, supervisor); err != nil {
		return nil, err
	}
	student := &models.Student{
		NIM:           req.NIM,
		Name:          strings.TrimSpace(req.Name),
		Semester:      req.Semester,
		ProgramID:     req.ProgramID,
		SupervisorNIP: supervisor,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, writeError(err, "student not found", "student already exists", "failed to create student")
	}
	return student, nil
}

// Update overwrites the supplied fields and returns the refreshed student.
func (s *StudentService) Update(ctx context.Context, nim int64, req dto.UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	if _, err := s.repo.FindByNIM(ctx, nim); err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}

	supervisor := trimmedOrNil(req.SupervisorNIP)
	if err := s.checkReferences(ctx, req.ProgramID, supervisor); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["nama_mahasiswa"] = strings.TrimSpace(*req.Name)
	}
	if req.Semester != nil {
		changes["semester"] = *req.Semester
	}
	if req.ProgramID != nil {
		changes["id_program_mbkm"] = *req.ProgramID
	}
	if supervisor != nil {
		changes["nip_dosbing"] = *supervisor
	}
	if err := s.repo.Update(ctx, nim, changes); err != nil {
		return nil, writeError(err, "student not found", "student already exists", "failed to update student")
	}
	return s.Get(ctx, nim)
}

// Delete removes a student and, through cascading keys, their dependent rows.
// Stored objects of the removed files and logbooks are queued for deletion.
func (s *StudentService) Delete(ctx context.Context, nim int64) error {
	keys, err := s.repo.Delete(ctx, nim)
	if err != nil {
		return deleteError(err, "student not found", "student is still referenced", "failed to delete student")
	}
	for i := range keys {
		scheduleObjectDeletion(s.queue, &keys[i], s.logger)
	}
	return nil
}

func (s *StudentService) checkReferences(ctx context.Context, programID *int64, supervisorNIP *string) error {
	if programID != nil {
		found, err := s.refs.ProgramExists(ctx, *programID)
		if err != nil {
			return internal(err, "failed to validate program mbkm")
		}
		if !found {
			return badRequest("program mbkm not found")
		}
	}
	if supervisorNIP != nil {
		found, err := s.refs.SupervisorExists(ctx, *supervisorNIP)
		if err != nil {
			return internal(err, "failed to validate supervisor")
		}
		if !found {
			return badRequest("supervisor not found")
		}
	}
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
