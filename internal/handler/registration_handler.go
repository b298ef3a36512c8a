package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type registrationService interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error)
	ListByNIM(ctx context.Context, nim int64) ([]models.RegistrationDetail, error)
	Get(ctx context.Context, id int64) (*models.RegistrationDetail, error)
	Create(ctx context.Context, req dto.CreateRegistrationRequest, actor *models.JWTClaims) (*models.RegistrationDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateRegistrationRequest, actor *models.JWTClaims) (*models.RegistrationDetail, error)
	Delete(ctx context.Context, id int64, actor *models.JWTClaims) error
}

// RegistrationHandler exposes the MBKM registration workflow.
type RegistrationHandler struct {
	registrations registrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations registrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param id_program_mbkm query int false "Filter by programme"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Router /pendaftaran-mbkm [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	filter, err := registrationFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.registrations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// ListByStudent godoc
// @Summary List registrations of one student
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param nim path int true "Student NIM"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /mahasiswa/{nim}/pendaftaran-mbkm [get]
func (h *RegistrationHandler) ListByStudent(c *gin.Context) {
	nim, err := int64Param(c, "nim")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.registrations.ListByNIM(c.Request.Context(), nim)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get registration detail
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /pendaftaran-mbkm/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.registrations.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Register a student for an MBKM programme
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateRegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /pendaftaran-mbkm [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "registration"))
		return
	}
	item, err := h.registrations.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item, "Pendaftaran MBKM created")
}

// Update godoc
// @Summary Update registration
// @Description A present matkul_knvrs list, even an empty one, replaces every course selection
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param payload body dto.UpdateRegistrationRequest true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /pendaftaran-mbkm/{id} [put]
func (h *RegistrationHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "registration"))
		return
	}
	item, err := h.registrations.Update(c.Request.Context(), id, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, "Pendaftaran MBKM updated")
}

// Delete godoc
// @Summary Delete registration
// @Tags Registrations
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /pendaftaran-mbkm/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.registrations.Delete(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func registrationFilterFromQuery(c *gin.Context) (models.RegistrationFilter, error) {
	var filter models.RegistrationFilter
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		s := models.RegistrationStatus(status)
		filter.Status = &s
	}
	programID, err := int64Query(c, "id_program_mbkm")
	if err != nil {
		return filter, err
	}
	filter.ProgramID = programID
	return filter, nil
}
