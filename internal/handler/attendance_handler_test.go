package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
)

type fakeAttendanceService struct {
	query   dto.AttendanceQuery
	saved   dto.AttendanceSaveRequest
	actor   *models.Principal
	summary string
}

func (f *fakeAttendanceService) Roster(_ context.Context, q dto.AttendanceQuery) ([]models.AttendanceRosterEntry, error) {
	f.query = q
	return []models.AttendanceRosterEntry{}, nil
}

func (f *fakeAttendanceService) Save(_ context.Context, req dto.AttendanceSaveRequest, actor *models.Principal) ([]models.Attendance, error) {
	f.saved = req
	f.actor = actor
	return []models.Attendance{}, nil
}

func (f *fakeAttendanceService) Summary(_ context.Context, enrollmentID string) (*models.AttendanceSummary, error) {
	f.summary = enrollmentID
	return &models.AttendanceSummary{}, nil
}

func TestAttendanceHandlerRosterBindsQuery(t *testing.T) {
	svc := &fakeAttendanceService{}
	handler := NewAttendanceHandler(svc)
	c, w := newGinContext(http.MethodGet, "/attendance?batch_id=b-1&date=2026-03-14", nil)

	handler.Roster(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b-1", svc.query.BatchID)
	assert.Equal(t, "2026-03-14", svc.query.Date)
}

func TestAttendanceHandlerSavePassesCaller(t *testing.T) {
	svc := &fakeAttendanceService{}
	handler := NewAttendanceHandler(svc)
	body := []byte(`{"batch_id":"b-1","session_date":"2026-03-14","records":[{"enrollment_id":"e-1","status":"present"}]}`)
	c, w := newGinContext(http.MethodPut, "/attendance", body)
	withPrincipal(c, &models.Principal{UserID: "user-1", ProfileID: "trainer-1", Roles: []models.Role{models.RoleTrainer}})

	handler.Save(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trainer-1", svc.actor.ProfileID)
	assert.Len(t, svc.saved.Records, 1)
	assert.Equal(t, "2026-03-14", svc.saved.SessionDate.String())
}

func TestAttendanceHandlerSummaryRequiresEnrollment(t *testing.T) {
	svc := &fakeAttendanceService{}
	handler := NewAttendanceHandler(svc)
	c, w := newGinContext(http.MethodGet, "/attendance/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "enrollment_id is required", decodeEnvelope(t, w).Error["message"])
	assert.Empty(t, svc.summary)
}
