package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type reportService interface {
	Summary(ctx context.Context, q dto.ReportQuery) (*models.ReportSummary, error)
	Export(ctx context.Context, req dto.ReportExportRequest) (*models.ReportExport, error)
}

// ReportHandler exposes monthly reports and their exports.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary godoc
// @Summary Monthly activity report
// @Description Enrollments, receipts, revenue, certificates and attendance rate per month
// @Tags Reports
// @Produce json
// @Param months query int false "6 (default) or 12"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	var q dto.ReportQuery
	if !bindQuery(c, &q) {
		return
	}
	summary, err := h.reports.Summary(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Export godoc
// @Summary Export report
// @Description Writes the report as CSV or PDF and returns a signed download link
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportExportRequest true "Export request"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ReportExportRequest
	if !bindJSON(c, &req) {
		return
	}
	export, err := h.reports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, export)
}
