package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type certificateService interface {
	List(ctx context.Context, q dto.ListQuery) ([]models.CertificateDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.CertificateDetail, error)
	Issue(ctx context.Context, req dto.CertificateRequest, actor *models.Principal) (*models.CertificateDetail, error)
	Revoke(ctx context.Context, id string, req dto.ReasonRequest) (*models.CertificateDetail, error)
	Delete(ctx context.Context, id string) error
	Document(ctx context.Context, id, rawFormat string) (*document.Document, error)
}

type certificateArchive interface {
	CertificateLink(ctx context.Context, id string) (*models.ArchiveLink, error)
}

// CertificateHandler issues course completion certificates.
type CertificateHandler struct {
	certificates certificateService
	archive      certificateArchive
}

// NewCertificateHandler constructs CertificateHandler.
func NewCertificateHandler(certificates certificateService, archive certificateArchive) *CertificateHandler {
	return &CertificateHandler{certificates: certificates, archive: archive}
}

// List godoc
// @Summary List certificates
// @Tags Certificates
// @Produce json
// @Param search query string false "Search by certificate number, course or student name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	certificates, pagination, err := h.certificates.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, certificates, pagination)
}

// Get godoc
// @Summary Get certificate
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	certificate, err := h.certificates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, certificate)
}

// Issue godoc
// @Summary Issue certificate
// @Description Attendance percentage is computed from attendance records when omitted
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body dto.CertificateRequest true "Certificate payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /certificates [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req dto.CertificateRequest
	if !bindJSON(c, &req) {
		return
	}
	certificate, err := h.certificates.Issue(c.Request.Context(), req, principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, certificate)
}

// Revoke godoc
// @Summary Revoke certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param payload body dto.ReasonRequest true "Reason"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /certificates/{id}/revoke [post]
func (h *CertificateHandler) Revoke(c *gin.Context) {
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	certificate, err := h.certificates.Revoke(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, certificate)
}

// Delete godoc
// @Summary Delete certificate
// @Tags Certificates
// @Param id path string true "Certificate ID"
// @Success 204
// @Security BearerAuth
// @Router /certificates/{id} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	if err := h.certificates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Document godoc
// @Summary Render certificate
// @Tags Certificates
// @Produce text/html
// @Produce text/plain
// @Produce application/pdf
// @Param id path string true "Certificate ID"
// @Param format query string false "html, txt or pdf (default)"
// @Success 200 {file} file
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /certificates/{id}/document [get]
func (h *CertificateHandler) Document(c *gin.Context) {
	doc, err := h.certificates.Document(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}

// Archive godoc
// @Summary Archived certificate PDF
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /certificates/{id}/archive [get]
func (h *CertificateHandler) Archive(c *gin.Context) {
	link, err := h.archive.CertificateLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}
