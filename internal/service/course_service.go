package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/cache"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.ConversionCourse, error)
	FindByID(ctx context.Context, id int64) (*models.ConversionCourse, error)
	Create(ctx context.Context, course *models.ConversionCourse) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

var (
	courseListKey = cache.Key("course", "list")
	coursePattern = cache.Pattern("course")
)

// CourseService manages conversion courses.
type CourseService struct {
	repo      courseRepository
	cache     catalogueCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service. cache may be nil.
func NewCourseService(repo courseRepository, cache catalogueCache, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.ConversionCourse, error) {
	var courses []models.ConversionCourse
	if hit := cachedList(ctx, s.cache, courseListKey, &courses, s.logger); hit {
		return courses, nil
	}
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list conversion courses")
	}
	storeList(ctx, s.cache, courseListKey, courses, s.logger)
	return courses, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.ConversionCourse, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "conversion course not found", "failed to load conversion course")
	}
	return course, nil
}

// Create inserts a course.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.ConversionCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid conversion course payload")
	}
	course := &models.ConversionCourse{Code: trimmedOrNil(req.Code), Name: strings.TrimSpace(req.Name), Credits: req.Credits}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "conversion course not found", "conversion course already exists", "failed to create conversion course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Update overwrites the supplied fields.
func (s *CourseService) Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.ConversionCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid conversion course payload")
	}
	changes := map[string]interface{}{}
	if req.Code != nil {
		changes["kode_matkul"] = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		changes["nama_matkul"] = strings.TrimSpace(*req.Name)
	}
	if req.Credits != nil {
		changes["sks"] = *req.Credits
	}
	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, writeError(err, "conversion course not found", "conversion course already exists", "failed to update conversion course")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes a course and its registration links.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "conversion course not found", "conversion course is still referenced", "failed to delete conversion course")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, coursePattern); err != nil {
		s.logger.Warn("failed to invalidate course cache", zap.Error(err))
	}
}
