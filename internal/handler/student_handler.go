package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	Get(ctx context.Context, nim int64) (*models.StudentDetail, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, nim int64, req dto.UpdateStudentRequest) (*models.StudentDetail, error)
	Delete(ctx context.Context, nim int64) error
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /mahasiswa [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param nim path int true "Student NIM"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /mahasiswa/{nim} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	nim, err := int64Param(c, "nim")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), nim)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /mahasiswa [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "student"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param nim path int true "Student NIM"
// @Param payload body dto.UpdateStudentRequest true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /mahasiswa/{nim} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	nim, err := int64Param(c, "nim")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "student"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), nim, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Security BearerAuth
// @Param nim path int true "Student NIM"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /mahasiswa/{nim} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	nim, err := int64Param(c, "nim")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), nim); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
