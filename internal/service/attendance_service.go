package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type attendanceRepository interface {
	Roster(ctx context.Context, batchID string, date models.Date) ([]models.AttendanceRosterEntry, error)
	ReplaceSession(ctx context.Context, batchID string, date models.Date, records []models.Attendance) ([]models.Attendance, error)
	Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error)
}

// AttendanceService records batch session attendance.
type AttendanceService struct {
	repo      attendanceRepository
	batches   batchLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, batches batchLookup, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, batches: batches, validator: validate, logger: logger}
}

// Roster returns the active enrollments of a batch with their mark for the requested date.
func (s *AttendanceService) Roster(ctx context.Context, q dto.AttendanceQuery) ([]models.AttendanceRosterEntry, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, validationError(err, "invalid attendance query")
	}
	date, err := models.ParseDate(q.Date)
	if err != nil {
		return nil, validationError(err, "date must be formatted as YYYY-MM-DD")
	}
	if _, err := s.batches.FindByID(ctx, q.BatchID); err != nil {
		return nil, lookupError(err, "batch")
	}
	roster, err := s.repo.Roster(ctx, q.BatchID, date)
	if err != nil {
		return nil, internalError(err, "failed to load attendance roster")
	}
	return roster, nil
}

// Save replaces the marks of one batch session with req.Records. Enrollments left out
// of the request lose their mark for that date; the rest are inserted or overwritten.
func (s *AttendanceService) Save(ctx context.Context, req dto.AttendanceSaveRequest, actor *models.Principal) ([]models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}
	if req.SessionDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session_date is required")
	}
	if _, err := s.batches.FindByID(ctx, req.BatchID); err != nil {
		return nil, lookupError(err, "batch")
	}

	roster, err := s.repo.Roster(ctx, req.BatchID, req.SessionDate)
	if err != nil {
		return nil, internalError(err, "failed to load attendance roster")
	}
	enrolled := make(map[string]bool, len(roster))
	for _, entry := range roster {
		enrolled[entry.EnrollmentID] = true
	}

	var markedBy *string
	if actor != nil && actor.ProfileID != "" {
		markedBy = &actor.ProfileID
	}

	// Later marks for the same enrollment win.
	position := make(map[string]int, len(req.Records))
	records := make([]models.Attendance, 0, len(req.Records))
	for _, mark := range req.Records {
		if !enrolled[mark.EnrollmentID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("enrollment %s is not active in this batch", mark.EnrollmentID))
		}
		record := models.Attendance{
			BatchID:       req.BatchID,
			EnrollmentID:  mark.EnrollmentID,
			SessionDate:   req.SessionDate,
			SessionNumber: req.SessionNumber,
			Status:        models.AttendanceStatus(mark.Status),
			MarkedBy:      markedBy,
			Remarks:       mark.Remarks,
		}
		if i, seen := position[mark.EnrollmentID]; seen {
			records[i] = record
			continue
		}
		position[mark.EnrollmentID] = len(records)
		records = append(records, record)
	}

	stored, err := s.repo.ReplaceSession(ctx, req.BatchID, req.SessionDate, records)
	if err != nil {
		return nil, internalError(err, "failed to save attendance")
	}
	s.logger.Info("attendance saved",
		zap.String("batch_id", req.BatchID),
		zap.String("session_date", req.SessionDate.String()),
		zap.Int("records", len(stored)))
	return stored, nil
}

// Summary returns attendance counts and percentage for one enrollment.
func (s *AttendanceService) Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error) {
	if err := s.validator.Var(enrollmentID, "required,uuid"); err != nil {
		return nil, validationError(err, "enrollment_id must be a valid id")
	}
	summary, err := s.repo.Summary(ctx, enrollmentID)
	if err != nil {
		return nil, internalError(err, "failed to summarise attendance")
	}
	return summary, nil
}
