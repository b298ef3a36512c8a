package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type gradeConversionService interface {
	List(ctx context.Context) ([]models.GradeConversion, error)
	Get(ctx context.Context, id int64) (*models.GradeConversion, error)
	Create(ctx context.Context, req dto.CreateGradeConversionRequest) (*models.GradeConversion, error)
	Update(ctx context.Context, id int64, req dto.UpdateGradeConversionRequest) (*models.GradeConversion, error)
	Delete(ctx context.Context, id int64) error
}

// GradeConversionHandler exposes grade conversion endpoints.
type GradeConversionHandler struct {
	conversions gradeConversionService
}

// NewGradeConversionHandler constructs GradeConversionHandler.
func NewGradeConversionHandler(conversions gradeConversionService) *GradeConversionHandler {
	return &GradeConversionHandler{conversions: conversions}
}

// List godoc
// @Summary List grade conversions
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Router /konversi-nilai [get]
func (h *GradeConversionHandler) List(c *gin.Context) {
	items, err := h.conversions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get grade conversion
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversion ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /konversi-nilai/{id} [get]
func (h *GradeConversionHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.conversions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create grade conversion
// @Description The student is taken from the referenced assessment file; the grade is derived from nilai_akhir when omitted
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateGradeConversionRequest true "Conversion payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Router /konversi-nilai [post]
func (h *GradeConversionHandler) Create(c *gin.Context) {
	var req dto.CreateGradeConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "grade conversion"))
		return
	}
	item, err := h.conversions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update grade conversion
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversion ID"
// @Param payload body dto.UpdateGradeConversionRequest true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /konversi-nilai/{id} [put]
func (h *GradeConversionHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateGradeConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "grade conversion"))
		return
	}
	item, err := h.conversions.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete grade conversion
// @Tags Grades
// @Security BearerAuth
// @Param id path int true "Conversion ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /konversi-nilai/{id} [delete]
func (h *GradeConversionHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.conversions.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
