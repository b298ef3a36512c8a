package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/response"
)

type logbookService interface {
	List(ctx context.Context, nim *int64) ([]models.LogbookDetail, error)
	Get(ctx context.Context, id int64) (*models.LogbookDetail, error)
	Create(ctx context.Context, req dto.CreateLogbookRequest, upload *dto.Upload, actor *models.JWTClaims) (*models.LogbookDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateLogbookRequest, upload *dto.Upload, actor *models.JWTClaims) (*models.LogbookDetail, error)
	Delete(ctx context.Context, id int64, actor *models.JWTClaims) error
}

// LogbookHandler exposes logbook endpoints. Writes accept JSON or a multipart
// form with an optional attachment.
type LogbookHandler struct {
	logbooks logbookService
}

// NewLogbookHandler constructs LogbookHandler.
func NewLogbookHandler(logbooks logbookService) *LogbookHandler {
	return &LogbookHandler{logbooks: logbooks}
}

// List godoc
// @Summary List logbook entries
// @Tags Logbooks
// @Produce json
// @Security BearerAuth
// @Param nim query int false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /logbook [get]
func (h *LogbookHandler) List(c *gin.Context) {
	nim, err := int64Query(c, "nim")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.logbooks.List(c.Request.Context(), nim)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get logbook entry
// @Tags Logbooks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Logbook ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /logbook/{id} [get]
func (h *LogbookHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.logbooks.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create logbook entry
// @Tags Logbooks
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param judul formData string true "Title"
// @Param subjek formData string false "Subject"
// @Param NIM formData int false "Student NIM when the token carries none"
// @Param file formData file false "Attachment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Router /logbook [post]
func (h *LogbookHandler) Create(c *gin.Context) {
	var req dto.CreateLogbookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "logbook"))
		return
	}
	upload, closeFn, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	item, err := h.logbooks.Create(c.Request.Context(), req, upload, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update logbook entry
// @Description A new attachment replaces the stored one
// @Tags Logbooks
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Logbook ID"
// @Param judul formData string false "Title"
// @Param subjek formData string false "Subject"
// @Param file formData file false "Attachment"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /logbook/{id} [put]
func (h *LogbookHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateLogbookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "logbook"))
		return
	}
	upload, closeFn, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	item, err := h.logbooks.Update(c.Request.Context(), id, req, upload, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete logbook entry
// @Tags Logbooks
// @Security BearerAuth
// @Param id path int true "Logbook ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /logbook/{id} [delete]
func (h *LogbookHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.logbooks.Delete(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
