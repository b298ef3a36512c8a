package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type staffService interface {
	Kind() models.StaffKind
	List(ctx context.Context) ([]models.Staff, error)
	Get(ctx context.Context, nip string) (*models.Staff, error)
	Create(ctx context.Context, req dto.StaffRequest) (*models.Staff, error)
	Update(ctx context.Context, nip string, req dto.StaffRequest) (*models.Staff, error)
	Delete(ctx context.Context, nip string) error
}

// StaffHandler serves one NIP-keyed staff table. The router mounts one
// instance each for dosbing, koor-mbkm and admin-siap.
type StaffHandler struct {
	staff staffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff staffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List godoc
// @Summary List staff members
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dosbing [get]
// @Router /koor-mbkm [get]
// @Router /admin-siap [get]
func (h *StaffHandler) List(c *gin.Context) {
	items, err := h.staff.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get staff member
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param nip path string true "NIP"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /dosbing/{nip} [get]
// @Router /koor-mbkm/{nip} [get]
// @Router /admin-siap/{nip} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	item, err := h.staff.Get(c.Request.Context(), c.Param("nip"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create staff member
// @Description Body keys follow the table, e.g. NIP_dosbing and nama_dosbing
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body object true "Staff payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /dosbing [post]
// @Router /koor-mbkm [post]
// @Router /admin-siap [post]
func (h *StaffHandler) Create(c *gin.Context) {
	req, err := h.decode(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.staff.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Rename staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param nip path string true "NIP"
// @Param payload body object true "Fields to overwrite"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /dosbing/{nip} [put]
// @Router /koor-mbkm/{nip} [put]
// @Router /admin-siap/{nip} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	req, err := h.decode(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.staff.Update(c.Request.Context(), c.Param("nip"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete staff member
// @Tags Staff
// @Security BearerAuth
// @Param nip path string true "NIP"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /dosbing/{nip} [delete]
// @Router /koor-mbkm/{nip} [delete]
// @Router /admin-siap/{nip} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.staff.Delete(c.Request.Context(), c.Param("nip")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *StaffHandler) decode(c *gin.Context) (dto.StaffRequest, error) {
	kind := h.staff.Kind()
	body, err := c.GetRawData()
	if err != nil {
		return dto.StaffRequest{}, invalidPayload(err, kind.Table)
	}
	req, err := dto.DecodeStaff(kind, body)
	if err != nil {
		return dto.StaffRequest{}, invalidPayload(err, kind.Table)
	}
	return req, nil
}
