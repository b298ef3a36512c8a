package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error)
	FindByID(ctx context.Context, id int64) (*models.RegistrationDetail, error)
	Create(ctx context.Context, reg *models.Registration, courseIDs []int64) error
	Update(ctx context.Context, id int64, changes map[string]interface{}, courseIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
}

// RegistrationService runs the MBKM registration workflow.
type RegistrationService struct {
	repo      registrationRepository
	refs      referenceChecker
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs the service.
func NewRegistrationService(repo registrationRepository, refs referenceChecker, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, refs: refs, validator: validate, logger: logger, now: time.Now}
}

// List returns registrations matching filter.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, badRequest("status must be one of pending, approved, rejected")
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal(err, "failed to list registrations")
	}
	return items, nil
}

// ListByNIM returns one student's registrations. An empty result is a 404.
func (s *RegistrationService) ListByNIM(ctx context.Context, nim int64) ([]models.RegistrationDetail, error) {
	items, err := s.repo.List(ctx, models.RegistrationFilter{NIM: &nim})
	if err != nil {
		return nil, internal(err, "failed to list registrations")
	}
	if len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No Pendaftaran MBKM found for this NIM")
	}
	return items, nil
}

// Get returns one registration.
func (s *RegistrationService) Get(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "registration not found", "failed to load registration")
	}
	return item, nil
}

// Create validates every reference, then writes the registration and its course links atomically.
func (s *RegistrationService) Create(ctx context.Context, req dto.CreateRegistrationRequest, actor *models.JWTClaims) (*models.RegistrationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid registration payload")
	}
	if err := ensureOwnNIM(actor, req.NIM); err != nil {
		return nil, err
	}

	supervisor := trimmedOrNil(req.SupervisorNIP)
	courseIDs := req.Courses.IDs()
	if err := s.checkStudent(ctx, req.NIM); err != nil {
		return nil, err
	}
	if err := s.checkProgram(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if err := s.checkSupervisor(ctx, supervisor); err != nil {
		return nil, err
	}
	if err := s.checkCourses(ctx, courseIDs); err != nil {
		return nil, err
	}

	reg := &models.Registration{
		NIM:           req.NIM,
		ProgramID:     req.ProgramID,
		SupervisorNIP: supervisor,
		Date:          s.now().UTC(),
		Status:        models.RegistrationPending,
	}
	if req.Date != nil {
		reg.Date = req.Date.Time
	}
	if req.Status != nil {
		reg.Status = models.RegistrationStatus(*req.Status)
	}

	if err := s.repo.Create(ctx, reg, courseIDs); err != nil {
		return nil, writeError(err, "registration not found", "registration already exists", "failed to create registration")
	}
	s.logger.Info("registration created",
		zap.Int64("id", reg.ID), zap.Int64("nim", reg.NIM), zap.Int("courses", len(courseIDs)))
	return s.Get(ctx, reg.ID)
}

// Update overwrites the supplied fields. A present course list replaces every existing link.
func (s *RegistrationService) Update(ctx context.Context, id int64, req dto.UpdateRegistrationRequest, actor *models.JWTClaims) (*models.RegistrationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid registration payload")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnNIM(actor, current.NIM); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.NIM != nil && *req.NIM != current.NIM {
		if err := ensureOwnNIM(actor, *req.NIM); err != nil {
			return nil, err
		}
		if err := s.checkStudent(ctx, *req.NIM); err != nil {
			return nil, err
		}
		changes["nim"] = *req.NIM
	}
	if req.ProgramID != nil && *req.ProgramID != current.ProgramID {
		if err := s.checkProgram(ctx, *req.ProgramID); err != nil {
			return nil, err
		}
		changes["id_program_mbkm"] = *req.ProgramID
	}
	if req.SupervisorNIP != nil {
		supervisor := trimmedOrNil(req.SupervisorNIP)
		if err := s.checkSupervisor(ctx, supervisor); err != nil {
			return nil, err
		}
		changes["nip_dosbing"] = supervisor
	}
	if req.Date != nil {
		changes["tanggal"] = req.Date.Time
	}
	if req.Status != nil {
		changes["status"] = *req.Status
	}

	var courseIDs *[]int64
	if req.Courses != nil {
		ids := req.Courses.IDs()
		if err := s.checkCourses(ctx, ids); err != nil {
			return nil, err
		}
		courseIDs = &ids
	}

	if err := s.repo.Update(ctx, id, changes, courseIDs); err != nil {
		return nil, writeError(err, "registration not found", "registration already exists", "failed to update registration")
	}
	return s.Get(ctx, id)
}

// Delete removes the registration and its course links.
func (s *RegistrationService) Delete(ctx context.Context, id int64, actor *models.JWTClaims) error {
	if actor != nil && actor.Role == models.RoleMahasiswa {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOwnNIM(actor, current.NIM); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "registration not found", "registration is still referenced", "failed to delete registration")
	}
	return nil
}

func (s *RegistrationService) checkStudent(ctx context.Context, nim int64) error {
	found, err := s.refs.StudentExists(ctx, nim)
	if err != nil {
		return internal(err, "failed to validate student")
	}
	if !found {
		return badRequest("student not found")
	}
	return nil
}

func (s *RegistrationService) checkProgram(ctx context.Context, id int64) error {
	found, err := s.refs.ProgramExists(ctx, id)
	if err != nil {
		return internal(err, "failed to validate program mbkm")
	}
	if !found {
		return badRequest("program mbkm not found")
	}
	return nil
}

func (s *RegistrationService) checkSupervisor(ctx context.Context, nip *string) error {
	if nip == nil {
		return nil
	}
	found, err := s.refs.SupervisorExists(ctx, *nip)
	if err != nil {
		return internal(err, "failed to validate supervisor")
	}
	if !found {
		return badRequest("supervisor not found")
	}
	return nil
}

func (s *RegistrationService) checkCourses(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.refs.MissingCourseIDs(ctx, ids)
	if err != nil {
		return internal(err, "failed to validate conversion courses")
	}
	if len(missing) > 0 {
		return badRequest("conversion course not found")
	}
	return nil
}

// ensureOwnNIM limits a mahasiswa token to its own NIM. A student token without a NIM owns nothing.
func ensureOwnNIM(actor *models.JWTClaims, nim int64) error {
	if actor == nil || actor.Role != models.RoleMahasiswa {
		return nil
	}
	own, ok := actor.NIM()
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "student account has no NIM")
	}
	if own != nim {
		return appErrors.Clone(appErrors.ErrForbidden, "students may only manage their own records")
	}
	return nil
}
