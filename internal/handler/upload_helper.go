package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/si-mbkm/mbkm-api/internal/dto"
)

const uploadField = "file"

// formUpload opens the multipart file under uploadField. A request without a
// file yields a nil upload and no error; callers decide whether it is required.
func formUpload(c *gin.Context) (*dto.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, invalidPayload(err, "upload")
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, invalidPayload(err, "upload")
	}
	upload := &dto.Upload{Filename: header.Filename, Size: header.Size, Content: file}
	return upload, func() { _ = file.Close() }, nil
}
