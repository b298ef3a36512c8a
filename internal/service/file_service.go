package service

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/storage"
)

type fileRepository interface {
	List(ctx context.Context, filter models.FileFilter) ([]models.AssessmentFile, error)
	FindByID(ctx context.Context, id int64) (*models.AssessmentFile, error)
	Create(ctx context.Context, file *models.AssessmentFile) error
	Delete(ctx context.Context, id int64) (*models.AssessmentFile, error)
}

type objectStore interface {
	Put(ctx context.Context, folder, filename, contentType string, r io.Reader) (storage.Object, error)
	Delete(ctx context.Context, key string) error
}

type uploadChecker interface {
	Check(r io.Reader, size int64) (string, io.Reader, error)
}

type uploadRecorder interface {
	RecordUpload(kind string, size int64)
}

// UploadConfig names the storage folder for a service's objects.
type UploadConfig struct {
	Folder string
}

// FileService stores assessment files and their database records.
type FileService struct {
	repo      fileRepository
	refs      referenceChecker
	store     objectStore
	checker   uploadChecker
	queue     jobEnqueuer
	metrics   uploadRecorder
	validator *validator.Validate
	logger    *zap.Logger
	cfg       UploadConfig
}

// NewFileService constructs the service. queue and metrics may be nil.
func NewFileService(repo fileRepository, refs referenceChecker, store objectStore, checker uploadChecker, queue jobEnqueuer, metrics uploadRecorder, validate *validator.Validate, logger *zap.Logger, cfg UploadConfig) *FileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Folder == "" {
		cfg.Folder = "berkas"
	}
	return &FileService{repo: repo, refs: refs, store: store, checker: checker, queue: queue, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// List returns files matching filter.
func (s *FileService) List(ctx context.Context, filter models.FileFilter) ([]models.AssessmentFile, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, badRequest("invalid jenis_berkas")
	}
	files, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal(err, "failed to list files")
	}
	return files, nil
}

// Get returns one file record.
func (s *FileService) Get(ctx context.Context, id int64) (*models.AssessmentFile, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "file not found", "failed to load file")
	}
	return file, nil
}

// Upload validates and stores the content, then records its reference. A mahasiswa
// token's NIM takes precedence over the form field.
func (s *FileService) Upload(ctx context.Context, req dto.UploadFileRequest, upload dto.Upload, actor *models.JWTClaims) (*models.AssessmentFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid file payload")
	}
	category := models.FileCategory(req.Category)
	if !category.Valid() {
		return nil, badRequest("invalid jenis_berkas")
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

	object, err := storeUpload(ctx, s.store, s.checker, s.cfg.Folder, upload)
	if err != nil {
		return nil, err
	}

	file := &models.AssessmentFile{NIM: nim, URL: object.URL, Category: category, StorageKey: &object.Key}
	if err := s.repo.Create(ctx, file); err != nil {
		scheduleObjectDeletion(s.queue, &object.Key, s.logger)
		return nil, writeError(err, "file not found", "file already exists", "failed to save file record")
	}
	if s.metrics != nil {
		s.metrics.RecordUpload(string(category), upload.Size)
	}
	return file, nil
}

// Delete removes the record and schedules removal of the stored object.
func (s *FileService) Delete(ctx context.Context, id int64, actor *models.JWTClaims) error {
	if actor != nil && actor.Role == models.RoleMahasiswa {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOwnNIM(actor, current.NIM); err != nil {
			return err
		}
	}
	file, err := s.repo.Delete(ctx, id)
	if err != nil {
		return deleteError(err, "file not found", "file is still used by a grade conversion", "failed to delete file")
	}
	scheduleObjectDeletion(s.queue, file.StorageKey, s.logger)
	return nil
}

func storeUpload(ctx context.Context, store objectStore, checker uploadChecker, folder string, upload dto.Upload) (storage.Object, error) {
	if upload.Content == nil {
		return storage.Object{}, badRequest("file is required")
	}
	contentType, body, err := checker.Check(upload.Content, upload.Size)
	if err != nil {
		return storage.Object{}, err
	}
	object, err := store.Put(ctx, folder, upload.Filename, contentType, body)
	if err != nil {
		return storage.Object{}, internal(err, "failed to store file")
	}
	return object, nil
}
