package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/export"
)

type registrationLister interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error)
}

// ExportResult is a rendered report ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

var registrationHeaders = []string{"ID", "NIM", "Nama Mahasiswa", "Program MBKM", "Mitra", "Dosen Pembimbing", "Tanggal", "Status", "Matkul Konversi"}

// ExportService renders registration reports.
type ExportService struct {
	registrations registrationLister
	logger        *zap.Logger
	now           func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(registrations registrationLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{registrations: registrations, logger: logger, now: time.Now}
}

// Registrations renders the filtered registration list in the requested format.
func (s *ExportService) Registrations(ctx context.Context, rawFormat string, filter models.RegistrationFilter) (*ExportResult, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, invalid(err, "format must be csv or pdf")
	}
	items, err := s.registrations.List(ctx, filter)
	if err != nil {
		return nil, internal(err, "failed to list registrations")
	}

	dataset := export.Dataset{
		Title:   "Laporan Pendaftaran MBKM",
		Headers: registrationHeaders,
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, item := range items {
		dataset.Rows = append(dataset.Rows, registrationRow(item))
	}

	payload, err := export.RendererFor(format).Render(dataset)
	if err != nil {
		return nil, internal(err, "failed to render report")
	}
	s.logger.Info("registration report rendered", zap.String("format", string(format)), zap.Int("rows", len(items)))

	return &ExportResult{
		Filename:    fmt.Sprintf("pendaftaran_mbkm_%s.%s", s.now().UTC().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Content:     payload,
	}, nil
}

func registrationRow(item models.RegistrationDetail) map[string]string {
	supervisor := ""
	if item.Supervisor != nil {
		supervisor = item.Supervisor.Name
	}
	partner := ""
	if item.Program.Partner != nil {
		partner = *item.Program.Partner
	}
	courses := make([]string, 0, len(item.Courses))
	for _, c := range item.Courses {
		courses = append(courses, c.Name)
	}
	return map[string]string{
		"ID":               strconv.FormatInt(item.ID, 10),
		"NIM":              strconv.FormatInt(item.NIM, 10),
		"Nama Mahasiswa":   item.Student.Name,
		"Program MBKM":     item.Program.Name,
		"Mitra":            partner,
		"Dosen Pembimbing": supervisor,
		"Tanggal":          item.Date.Format("2006-01-02"),
		"Status":           statusLabel(item.Status),
		"Matkul Konversi":  strings.Join(courses, "; "),
	}
}

func statusLabel(status models.RegistrationStatus) string {
	if status == "" {
		return ""
	}
	return strings.ToUpper(string(status[:1])) + string(status[1:])
}
