package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type attendanceService interface {
	Roster(ctx context.Context, q dto.AttendanceQuery) ([]models.AttendanceRosterEntry, error)
	Save(ctx context.Context, req dto.AttendanceSaveRequest, actor *models.Principal) ([]models.Attendance, error)
	Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error)
}

// AttendanceHandler marks and reports batch attendance.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Roster godoc
// @Summary Session roster
// @Description Active enrollments of a batch with their mark for the date
// @Tags Attendance
// @Produce json
// @Param batch_id query string true "Batch ID"
// @Param date query string true "Session date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [get]
func (h *AttendanceHandler) Roster(c *gin.Context) {
	var q dto.AttendanceQuery
	if !bindQuery(c, &q) {
		return
	}
	roster, err := h.attendance.Roster(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roster)
}

// Save godoc
// @Summary Save session attendance
// @Description Replaces every mark of the batch session with the submitted records
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.AttendanceSaveRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [put]
func (h *AttendanceHandler) Save(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req dto.AttendanceSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	saved, err := h.attendance.Save(c.Request.Context(), req, principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, saved)
}

// Summary godoc
// @Summary Attendance summary of an enrollment
// @Tags Attendance
// @Produce json
// @Param enrollment_id query string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/summary [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	enrollmentID := strings.TrimSpace(c.Query("enrollment_id"))
	if enrollmentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "enrollment_id is required"))
		return
	}
	summary, err := h.attendance.Summary(c.Request.Context(), enrollmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
