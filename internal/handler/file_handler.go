package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/service"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type fileService interface {
	Open(token string) (*service.FileDownload, error)
}

// FileHandler serves stored files behind signed links.
type FileHandler struct {
	files fileService
}

// NewFileHandler constructs FileHandler.
func NewFileHandler(files fileService) *FileHandler {
	return &FileHandler{files: files}
}

// Download godoc
// @Summary Download stored file
// @Description Serves an exported report or archived document from a signed link
// @Tags Files
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FileHandler) Download(c *gin.Context) {
	download, err := h.files.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()
	response.Stream(c, download.FileName, download.ContentType, download.Size, download.File)
}
