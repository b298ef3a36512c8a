package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/internal/service"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type exportService interface {
	Registrations(ctx context.Context, rawFormat string, filter models.RegistrationFilter) (*service.ExportResult, error)
}

// ReportHandler serves downloadable registration reports.
type ReportHandler struct {
	exports exportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(exports exportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// Registrations godoc
// @Summary Export registrations
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param status query string false "pending, approved or rejected"
// @Param id_program_mbkm query int false "Filter by programme"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /reports/pendaftaran-mbkm [get]
func (h *ReportHandler) Registrations(c *gin.Context) {
	filter, err := registrationFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.Registrations(c.Request.Context(), c.DefaultQuery("format", "csv"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
