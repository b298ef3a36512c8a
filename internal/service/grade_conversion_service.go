package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
)

type gradeConversionRepository interface {
	List(ctx context.Context) ([]models.GradeConversion, error)
	FindByID(ctx context.Context, id int64) (*models.GradeConversion, error)
	Create(ctx context.Context, item *models.GradeConversion) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type fileLookup interface {
	FindByID(ctx context.Context, id int64) (*models.AssessmentFile, error)
}

// GradeConversionService converts assessed files into final grades.
type GradeConversionService struct {
	repo      gradeConversionRepository
	files     fileLookup
	refs      referenceChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeConversionService constructs the service.
func NewGradeConversionService(repo gradeConversionRepository, files fileLookup, refs referenceChecker, validate *validator.Validate, logger *zap.Logger) *GradeConversionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeConversionService{repo: repo, files: files, refs: refs, validator: validate, logger: logger}
}

// List returns every grade conversion.
func (s *GradeConversionService) List(ctx context.Context) ([]models.GradeConversion, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list grade conversions")
	}
	return items, nil
}

// Get returns one grade conversion.
func (s *GradeConversionService) Get(ctx context.Context, id int64) (*models.GradeConversion, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "grade conversion not found", "failed to load grade conversion")
	}
	return item, nil
}

// Create records a conversion for the student who owns the referenced file.
func (s *GradeConversionService) Create(ctx context.Context, req dto.CreateGradeConversionRequest) (*models.GradeConversion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid grade conversion payload")
	}
	file, err := s.files.FindByID(ctx, req.FileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badRequest("assessment file not found")
		}
		return nil, internal(err, "failed to load assessment file")
	}
	supervisor := trimmedOrNil(req.SupervisorNIP)
	if err := s.checkSupervisor(ctx, supervisor); err != nil {
		return nil, err
	}

	item := &models.GradeConversion{
		NIM:           file.NIM,
		FileID:        file.ID,
		SupervisorNIP: supervisor,
		FinalScore:    req.FinalScore,
		Grade:         resolveGrade(req.Grade, req.FinalScore),
		Status:        models.ConversionPending,
	}
	if req.Status != nil {
		item.Status = models.ConversionStatus(*req.Status)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, writeError(err, "grade conversion not found", "grade conversion already exists", "failed to create grade conversion")
	}
	return item, nil
}

// Update overwrites the supplied fields. A new score without a grade re-derives the grade.
func (s *GradeConversionService) Update(ctx context.Context, id int64, req dto.UpdateGradeConversionRequest) (*models.GradeConversion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid grade conversion payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.SupervisorNIP != nil {
		supervisor := trimmedOrNil(req.SupervisorNIP)
		if err := s.checkSupervisor(ctx, supervisor); err != nil {
			return nil, err
		}
		changes["nip_dosbing"] = supervisor
	}
	if req.FinalScore != nil {
		changes["nilai_akhir"] = *req.FinalScore
	}
	if grade := resolveGrade(req.Grade, req.FinalScore); grade != nil {
		changes["grade"] = *grade
	}
	if req.Status != nil {
		changes["status"] = *req.Status
	}
	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, writeError(err, "grade conversion not found", "grade conversion already exists", "failed to update grade conversion")
	}
	return s.Get(ctx, id)
}

// Delete removes a grade conversion.
func (s *GradeConversionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "grade conversion not found", "grade conversion is still referenced", "failed to delete grade conversion")
	}
	return nil
}

func (s *GradeConversionService) checkSupervisor(ctx context.Context, nip *string) error {
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

func resolveGrade(grade *string, score *float64) *string {
	if grade != nil {
		if g := strings.ToUpper(strings.TrimSpace(*grade)); g != "" {
			return &g
		}
	}
	if score == nil {
		return nil
	}
	derived := models.GradeFromScore(*score)
	return &derived
}
