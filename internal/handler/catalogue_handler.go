package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type programService interface {
	List(ctx context.Context) ([]models.Program, error)
	Get(ctx context.Context, id int64) (*models.Program, error)
	Create(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error)
	Update(ctx context.Context, id int64, req dto.UpdateProgramRequest) (*models.Program, error)
	Delete(ctx context.Context, id int64) error
}

type courseService interface {
	List(ctx context.Context) ([]models.ConversionCourse, error)
	Get(ctx context.Context, id int64) (*models.ConversionCourse, error)
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.ConversionCourse, error)
	Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.ConversionCourse, error)
	Delete(ctx context.Context, id int64) error
}

// ProgramHandler exposes MBKM programme endpoints.
type ProgramHandler struct {
	programs programService
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(programs programService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// List godoc
// @Summary List MBKM programmes
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /program-mbkm [get]
func (h *ProgramHandler) List(c *gin.Context) {
	items, err := h.programs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get MBKM programme
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Programme ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /program-mbkm/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.programs.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create MBKM programme
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateProgramRequest true "Programme payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Router /program-mbkm [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "program"))
		return
	}
	item, err := h.programs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update MBKM programme
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Programme ID"
// @Param payload body dto.UpdateProgramRequest true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /program-mbkm/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "program"))
		return
	}
	item, err := h.programs.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete MBKM programme
// @Tags Programs
// @Security BearerAuth
// @Param id path int true "Programme ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /program-mbkm/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.programs.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CourseHandler exposes conversion course endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List conversion courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /matkul-knvrs [get]
func (h *CourseHandler) List(c *gin.Context) {
	items, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get conversion course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /matkul-knvrs/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create conversion course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Router /matkul-knvrs [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "course"))
		return
	}
	item, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update conversion course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param payload body dto.UpdateCourseRequest true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /matkul-knvrs/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "course"))
		return
	}
	item, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete conversion course
// @Tags Courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /matkul-knvrs/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
