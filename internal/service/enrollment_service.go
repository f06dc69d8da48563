package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/internal/repository"
	"github.com/noah-isme/institute-erp-api/pkg/database"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	CountActiveInBatch(ctx context.Context, batchID string) (int, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
	Delete(ctx context.Context, id string) error
}

type batchLookup interface {
	FindByID(ctx context.Context, id string) (*models.BatchDetail, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

var enrollmentSearchFields search.Fields[models.EnrollmentDetail] = func(e models.EnrollmentDetail) []string {
	return []string{e.StudentName, e.AdmissionNumber, e.BatchName}
}

// EnrollmentService manages student enrollments into batches.
type EnrollmentService struct {
	repo      enrollmentRepository
	batches   batchLookup
	students  studentLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, batches batchLookup, students studentLookup, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, batches: batches, students: students, validator: validate, logger: logger}
}

// List returns enrollments matching the query.
func (s *EnrollmentService) List(ctx context.Context, q dto.EnrollmentQuery) ([]models.EnrollmentDetail, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err, "invalid enrollment query")
	}
	enrollments, err := s.repo.List(ctx, repository.EnrollmentFilter{
		StudentID: q.StudentID,
		BatchID:   q.BatchID,
		Status:    models.EnrollmentStatus(q.Status),
	})
	if err != nil {
		return nil, nil, internalError(err, "failed to list enrollments")
	}
	items, pagination := listPage(enrollments, q.ListQuery, enrollmentSearchFields)
	return items, pagination, nil
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}
	return enrollment, nil
}

// Create enrolls a student into a batch that still has seats.
func (s *EnrollmentService) Create(ctx context.Context, req dto.EnrollmentRequest, actor *models.Principal) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student")
	}
	if err := s.ensureSeat(ctx, req.BatchID); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:      req.StudentID,
		BatchID:        req.BatchID,
		EnrollmentDate: models.NewDate(time.Now()),
		Status:         models.EnrollmentStatusActive,
		FeePaid:        req.FeePaid,
		FeePending:     req.FeePending,
		Notes:          req.Notes,
	}
	if req.EnrollmentDate != nil && !req.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = *req.EnrollmentDate
	}
	if actor != nil && actor.ProfileID != "" {
		enrollment.EnrolledBy = &actor.ProfileID
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, enrollmentWriteError(err, "create")
	}
	return s.Get(ctx, enrollment.ID)
}

// Update edits an enrollment. Moving to another batch requires a free seat there.
func (s *EnrollmentService) Update(ctx context.Context, id string, req dto.EnrollmentUpdateRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	existing, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}
	reactivated := models.EnrollmentStatus(req.Status) == models.EnrollmentStatusActive && existing.Status != models.EnrollmentStatusActive
	if req.BatchID != existing.BatchID || reactivated {
		if err := s.ensureSeat(ctx, req.BatchID); err != nil {
			return nil, err
		}
	}

	enrollment := existing.Enrollment
	enrollment.BatchID = req.BatchID
	enrollment.Status = models.EnrollmentStatus(req.Status)
	enrollment.FeePaid = req.FeePaid
	enrollment.FeePending = req.FeePending
	enrollment.Notes = req.Notes
	if req.EnrollmentDate != nil && !req.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = *req.EnrollmentDate
	}
	if err := s.repo.Update(ctx, &enrollment); err != nil {
		return nil, enrollmentWriteError(err, "update")
	}
	return s.Get(ctx, id)
}

// UpdateStatus transitions an enrollment to another lifecycle state.
// Reactivating an enrollment takes a seat, so the batch must have room.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req dto.EnrollmentStatusRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}
	status := models.EnrollmentStatus(req.Status)
	if status == models.EnrollmentStatusActive {
		existing, err := s.repo.FindDetailByID(ctx, id)
		if err != nil {
			return nil, lookupError(err, "enrollment")
		}
		if existing.Status != models.EnrollmentStatusActive {
			if err := s.ensureSeat(ctx, existing.BatchID); err != nil {
				return nil, err
			}
		}
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, enrollmentWriteError(err, "update")
	}
	return s.Get(ctx, id)
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "enrollment", "delete")
	}
	return nil
}

// ensureSeat fails when batchID is unknown or its active enrollments already reach a positive capacity.
func (s *EnrollmentService) ensureSeat(ctx context.Context, batchID string) error {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return lookupError(err, "batch")
	}
	if batch.Capacity <= 0 {
		return nil
	}
	active, err := s.repo.CountActiveInBatch(ctx, batchID)
	if err != nil {
		return internalError(err, "failed to count batch enrollments")
	}
	if active >= batch.Capacity {
		return appErrors.Clone(appErrors.ErrConflict, "Batch is full")
	}
	return nil
}

func enrollmentWriteError(err error, op string) error {
	if errors.Is(err, database.ErrUniqueViolation) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Student is already enrolled in this batch")
	}
	return writeError(err, "enrollment", op)
}
