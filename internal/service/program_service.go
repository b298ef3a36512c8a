package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/cache"
)

type programRepository interface {
	List(ctx context.Context) ([]models.Program, error)
	FindByID(ctx context.Context, id int64) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type catalogueCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

var (
	programListKey = cache.Key("program", "list")
	programPattern = cache.Pattern("program")
)

// ProgramService manages MBKM programmes. The list is served from cache when one is configured.
type ProgramService struct {
	repo      programRepository
	cache     catalogueCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs the service. cache may be nil.
func NewProgramService(repo programRepository, cache catalogueCache, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every programme.
func (s *ProgramService) List(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if hit := cachedList(ctx, s.cache, programListKey, &programs, s.logger); hit {
		return programs, nil
	}
	programs, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list program mbkm")
	}
	storeList(ctx, s.cache, programListKey, programs, s.logger)
	return programs, nil
}

// Get returns one programme.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "program mbkm not found", "failed to load program mbkm")
	}
	return program, nil
}

// Create inserts a programme.
func (s *ProgramService) Create(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid program mbkm payload")
	}
	program := &models.Program{
		Name:        strings.TrimSpace(req.Name),
		Partner:     req.Partner,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, writeError(err, "program mbkm not found", "program mbkm already exists", "failed to create program mbkm")
	}
	s.invalidate(ctx)
	return program, nil
}

// Update overwrites the supplied fields.
func (s *ProgramService) Update(ctx context.Context, id int64, req dto.UpdateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid program mbkm payload")
	}
	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["nama_program"] = strings.TrimSpace(*req.Name)
	}
	if req.Partner != nil {
		changes["mitra"] = *req.Partner
	}
	if req.Category != nil {
		changes["kategori"] = *req.Category
	}
	if req.Description != nil {
		changes["deskripsi"] = *req.Description
	}
	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, writeError(err, "program mbkm not found", "program mbkm already exists", "failed to update program mbkm")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes a programme. Programmes with registrations cannot be deleted.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteError(err, "program mbkm not found", "program mbkm is still used by registrations", "failed to delete program mbkm")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProgramService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, programPattern); err != nil {
		s.logger.Warn("failed to invalidate program cache", zap.Error(err))
	}
}

func cachedList(ctx context.Context, c catalogueCache, key string, dest interface{}, logger *zap.Logger) bool {
	if c == nil {
		return false
	}
	hit, err := c.Get(ctx, key, dest)
	if err != nil {
		logger.Debug("cache lookup failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func storeList(ctx context.Context, c catalogueCache, key string, value interface{}, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, key, value, 0); err != nil {
		logger.Debug("cache store failed", zap.String("key", key), zap.Error(err))
	}
}
