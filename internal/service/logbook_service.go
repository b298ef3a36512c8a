package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
)

type logbookRepository interface {
	List(ctx context.Context, nim *int64) ([]models.LogbookDetail, error)
	FindByID(ctx context.Context, id int64) (*models.LogbookDetail, error)
	Create(ctx context.Context, item *models.Logbook) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, id int64) (*models.Logbook, error)
}

// LogbookService manages student logbook entries and their optional attachments.
type LogbookService struct {
	repo      logbookRepository
	refs      referenceChecker
	store     objectStore
	checker   uploadChecker
	queue     jobEnqueuer
	metrics   uploadRecorder
	validator *validator.Validate
	logger    *zap.Logger
	cfg       UploadConfig
}

// NewLogbookService constructs the service. queue and metrics may be nil.
func NewLogbookService(repo logbookRepository, refs referenceChecker, store objectStore, checker uploadChecker, queue jobEnqueuer, metrics uploadRecorder, validate *validator.Validate, logger *zap.Logger, cfg UploadConfig) *LogbookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Folder == "" {
		cfg.Folder = "logbook"
	}
	return &LogbookService{repo: repo, refs: refs, store: store, checker: checker, queue: queue, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// List returns entries, optionally for one student.
func (s *LogbookService) List(ctx context.Context, nim *int64) ([]models.LogbookDetail, error) {
	items, err := s.repo.List(ctx, nim)
	if err != nil {
		return nil, internal(err, "failed to list logbooks")
	}
	return items, nil
}

// Get returns one entry.
func (s *LogbookService) Get(ctx context.Context, id int64) (*models.LogbookDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "logbook not found", "failed to load logbook")
	}
	return item, nil
}

// Create records an entry. The NIM comes from a mahasiswa token, else from the payload.
func (s *LogbookService) Create(ctx context.Context, req dto.CreateLogbookRequest, upload *dto.Upload, actor *models.JWTClaims) (*models.LogbookDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid logbook payload")
	}
	nim := req.NIM
	if own, ok := actor.NIM(); ok {
		nim = own
	}
	if nim <= 0 {
		return nil, badRequest("NIM is required")
	}
	if err := ensureOwnNIM(actor, nim); err != nil {
		return nil, err
	}
	found, err := s.refs.StudentExists(ctx, nim)
	if err != nil {
		return nil, internal(err, "failed to validate student")
	}
	if !found {
		return nil, badRequest("student not found")
	}

	item := &models.Logbook{NIM: nim, Title: strings.TrimSpace(req.Title), Subject: req.Subject}
	if upload != nil {
		object, err := storeUpload(ctx, s.store, s.checker, s.cfg.Folder, *upload)
		if err != nil {
			return nil, err
		}
		item.FileURL = &object.URL
		item.StorageKey = &object.Key
	}

	if err := s.repo.Create(ctx, item); err != nil {
		scheduleObjectDeletion(s.queue, item.StorageKey, s.logger)
		return nil, writeError(err, "logbook not found", "logbook already exists", "failed to create logbook")
	}
	if upload != nil && s.metrics != nil {
		s.metrics.RecordUpload("logbook", upload.Size)
	}
	return s.Get(ctx, item.ID)
}

// Update overwrites the supplied fields. A new attachment replaces the old one.
func (s *LogbookService) Update(ctx context.Context, id int64, req dto.UpdateLogbookRequest, upload *dto.Upload, actor *models.JWTClaims) (*models.LogbookDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid logbook payload")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnNIM(actor, current.NIM); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if req.Title != nil {
		changes["judul"] = strings.TrimSpace(*req.Title)
	}
	if req.Subject != nil {
		changes["subjek"] = *req.Subject
	}
	var newKey *string
	if upload != nil {
		object, err := storeUpload(ctx, s.store, s.checker, s.cfg.Folder, *upload)
		if err != nil {
			return nil, err
		}
		newKey = &object.Key
		changes["nama_file"] = object.URL
		changes["storage_key"] = object.Key
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		scheduleObjectDeletion(s.queue, newKey, s.logger)
		return nil, writeError(err, "logbook not found", "logbook already exists", "failed to update logbook")
	}
	if newKey != nil {
		scheduleObjectDeletion(s.queue, current.StorageKey, s.logger)
	}
	return s.Get(ctx, id)
}

// Delete removes the entry and schedules removal of its attachment.
func (s *LogbookService) Delete(ctx context.Context, id int64, actor *models.JWTClaims) error {
	if actor != nil && actor.Role == models.RoleMahasiswa {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOwnNIM(actor, current.NIM); err != nil {
			return err
		}
	}
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return deleteError(err, "logbook not found", "logbook is still referenced", "failed to delete logbook")
	}
	scheduleObjectDeletion(s.queue, item.StorageKey, s.logger)
	return nil
}
