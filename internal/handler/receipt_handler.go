package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type receiptService interface {
	List(ctx context.Context, q dto.ReceiptQuery) ([]models.ReceiptDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ReceiptDetail, error)
	Create(ctx context.Context, req dto.ReceiptRequest, actor *models.Principal) (*models.ReceiptDetail, error)
	Void(ctx context.Context, id string, req dto.ReasonRequest) (*models.ReceiptDetail, error)
	Refund(ctx context.Context, id string, req dto.ReasonRequest) (*models.ReceiptDetail, error)
	Delete(ctx context.Context, id string) error
	Document(ctx context.Context, id, rawFormat string) (*document.Document, error)
}

type receiptArchive interface {
	ReceiptLink(ctx context.Context, id string) (*models.ArchiveLink, error)
}

// ReceiptHandler records payments and serves receipt documents.
type ReceiptHandler struct {
	receipts receiptService
	archive  receiptArchive
}

// NewReceiptHandler constructs ReceiptHandler.
func NewReceiptHandler(receipts receiptService, archive receiptArchive) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, archive: archive}
}

// List godoc
// @Summary List receipts
// @Tags Receipts
// @Produce json
// @Param search query string false "Search by receipt number, student name or admission number"
// @Param student_id query string false "Student ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
	list, ok := listQuery(c)
	if !ok {
		return
	}
	q := dto.ReceiptQuery{ListQuery: list, StudentID: strings.TrimSpace(c.Query("student_id"))}
	receipts, pagination, err := h.receipts.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, receipts, pagination)
}

// Get godoc
// @Summary Get receipt
// @Tags Receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) Get(c *gin.Context) {
	receipt, err := h.receipts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, receipt)
}

// Create godoc
// @Summary Record a payment
// @Description The receipt number is assigned by the database
// @Tags Receipts
// @Accept json
// @Produce json
// @Param payload body dto.ReceiptRequest true "Receipt payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req dto.ReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.receipts.Create(c.Request.Context(), req, principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Void godoc
// @Summary Void receipt
// @Tags Receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param payload body dto.ReasonRequest true "Reason"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts/{id}/void [post]
func (h *ReceiptHandler) Void(c *gin.Context) {
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.receipts.Void(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, receipt)
}

// Refund godoc
// @Summary Refund receipt
// @Tags Receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param payload body dto.ReasonRequest true "Reason"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts/{id}/refund [post]
func (h *ReceiptHandler) Refund(c *gin.Context) {
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.receipts.Refund(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, receipt)
}

// Delete godoc
// @Summary Delete receipt
// @Tags Receipts
// @Param id path string true "Receipt ID"
// @Success 204
// @Security BearerAuth
// @Router /receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *gin.Context) {
	if err := h.receipts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Document godoc
// @Summary Render receipt
// @Description Receipt as printable HTML, plain text or PDF
// @Tags Receipts
// @Produce text/html
// @Produce text/plain
// @Produce application/pdf
// @Param id path string true "Receipt ID"
// @Param format query string false "html, txt or pdf (default)"
// @Success 200 {file} file
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts/{id}/document [get]
func (h *ReceiptHandler) Document(c *gin.Context) {
	doc, err := h.receipts.Document(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeDocument(c, doc)
}

// Archive godoc
// @Summary Archived receipt PDF
// @Description Download link of the PDF stored after the receipt was issued
// @Tags Receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /receipts/{id}/archive [get]
func (h *ReceiptHandler) Archive(c *gin.Context) {
	link, err := h.archive.ReceiptLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}
