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

type fileService interface {
	List(ctx context.Context, filter models.FileFilter) ([]models.AssessmentFile, error)
	Get(ctx context.Context, id int64) (*models.AssessmentFile, error)
	Upload(ctx context.Context, req dto.UploadFileRequest, upload dto.Upload, actor *models.JWTClaims) (*models.AssessmentFile, error)
	Delete(ctx context.Context, id int64, actor *models.JWTClaims) error
}

// FileHandler exposes assessment file endpoints.
type FileHandler struct {
	files fileService
}

// NewFileHandler constructs FileHandler.
func NewFileHandler(files fileService) *FileHandler {
	return &FileHandler{files: files}
}

// List godoc
// @Summary List assessment files
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param jenis_berkas query string false "CV, transkrip, KTP, sertifikat or dokumen_tambahan"
// @Param nim query int false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /berkas-penilaian [get]
func (h *FileHandler) List(c *gin.Context) {
	var filter models.FileFilter
	if category := strings.TrimSpace(c.Query("jenis_berkas")); category != "" {
		fc := models.FileCategory(category)
		filter.Category = &fc
	}
	nim, err := int64Query(c, "nim")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.NIM = nim

	items, err := h.files.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get assessment file
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorBody
// @Router /berkas-penilaian/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.files.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Upload godoc
// @Summary Upload assessment file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document"
// @Param jenis_berkas formData string true "File category"
// @Param NIM formData int false "Student NIM when the token carries none"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Router /berkas-penilaian [post]
func (h *FileHandler) Upload(c *gin.Context) {
	var req dto.UploadFileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "upload"))
		return
	}
	upload, closeFn, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	var file dto.Upload
	if upload != nil {
		file = *upload
	}
	item, err := h.files.Upload(c.Request.Context(), req, file, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item, "file uploaded")
}

// Delete godoc
// @Summary Delete assessment file
// @Tags Files
// @Security BearerAuth
// @Param id path int true "File ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /berkas-penilaian/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.files.Delete(c.Request.Context(), id, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
