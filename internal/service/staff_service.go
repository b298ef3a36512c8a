package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
)

type staffRepository interface {
	Kind() models.StaffKind
	List(ctx context.Context) ([]models.Staff, error)
	FindByNIP(ctx context.Context, nip string) (*models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	UpdateName(ctx context.Context, nip, name string) error
	Delete(ctx context.Context, nip string) error
}

// StaffService serves one staff table: supervisors, coordinators or admin staff.
type StaffService struct {
	repo      staffRepository
	kind      models.StaffKind
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs the service for the repository's table.
func NewStaffService(repo staffRepository, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, kind: repo.Kind(), validator: validate, logger: logger}
}

// Kind returns the table description, used by handlers to decode payloads.
func (s *StaffService) Kind() models.StaffKind {
	return s.kind
}

// List returns every row.
func (s *StaffService) List(ctx context.Context) ([]models.Staff, error) {
	staff, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err, fmt.Sprintf("failed to list %s", s.kind.Label))
	}
	return staff, nil
}

// Get returns one row.
func (s *StaffService) Get(ctx context.Context, nip string) (*models.Staff, error) {
	staff, err := s.repo.FindByNIP(ctx, nip)
	if err != nil {
		return nil, lookupError(err, s.kind.Label+" not found", fmt.Sprintf("failed to load %s", s.kind.Label))
	}
	return staff, nil
}

// Create inserts a row. Both the NIP and the name are required.
func (s *StaffService) Create(ctx context.Context, req dto.StaffRequest) (*models.Staff, error) {
	fields := req.Fields()
	if err := s.validator.Struct(fields); err != nil {
		return nil, invalid(err, fmt.Sprintf("%s and %s are required", s.kind.KeyField, s.kind.NameField))
	}
	staff := &models.Staff{NIP: fields.NIP, Name: fields.Name}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, writeError(err, s.kind.Label+" not found", s.kind.Label+" already exists", fmt.Sprintf("failed to create %s", s.kind.Label))
	}
	return staff, nil
}

// Update renames a row. The NIP is the primary key and cannot change.
func (s *StaffService) Update(ctx context.Context, nip string, req dto.StaffRequest) (*models.Staff, error) {
	if req.NIP != nil && *req.NIP != nip {
		return nil, badRequest(s.kind.KeyField + " cannot be changed")
	}
	if req.Name == nil {
		return s.Get(ctx, nip)
	}
	if err := s.validator.Var(*req.Name, "required,max=255"); err != nil {
		return nil, invalid(err, s.kind.NameField+" cannot be empty")
	}
	if err := s.repo.UpdateName(ctx, nip, *req.Name); err != nil {
		return nil, writeError(err, s.kind.Label+" not found", s.kind.Label+" already exists", fmt.Sprintf("failed to update %s", s.kind.Label))
	}
	return s.Get(ctx, nip)
}

// Delete removes a row.
func (s *StaffService) Delete(ctx context.Context, nip string) error {
	if err := s.repo.Delete(ctx, nip); err != nil {
		return deleteError(err, s.kind.Label+" not found", s.kind.Label+" is still referenced", fmt.Sprintf("failed to delete %s", s.kind.Label))
	}
	s.logger.Info("staff deleted", zap.String("table", s.kind.Table), zap.String("nip", nip))
	return nil
}
