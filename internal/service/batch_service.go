package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

type batchRepository interface {
	List(ctx context.Context) ([]models.BatchDetail, error)
	FindByID(ctx context.Context, id string) (*models.BatchDetail, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

type trainerLister interface {
	ListTrainers(ctx context.Context) ([]models.StaffProfile, error)
}

var batchSearchFields search.Fields[models.BatchDetail] = func(b models.BatchDetail) []string {
	return []string{b.Name, b.Code, b.CourseName}
}

// BatchService manages course batches.
type BatchService struct {
	repo      batchRepository
	trainers  trainerLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchService constructs the batch service.
func NewBatchService(repo batchRepository, trainers trainerLister, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, trainers: trainers, validator: validate, logger: logger}
}

// List returns batches with course, trainer and seat usage.
func (s *BatchService) List(ctx context.Context, q dto.ListQuery) ([]models.BatchDetail, *models.Pagination, error) {
	batches, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to list batches")
	}
	items, pagination := listPage(batches, q, batchSearchFields)
	return items, pagination, nil
}

// Get returns one batch.
func (s *BatchService) Get(ctx context.Context, id string) (*models.BatchDetail, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "batch")
	}
	return batch, nil
}

// Trainers lists active staff that can be assigned to a batch.
func (s *BatchService) Trainers(ctx context.Context) ([]models.StaffProfile, error) {
	trainers, err := s.trainers.ListTrainers(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list trainers")
	}
	return trainers, nil
}

// Create schedules a new batch.
func (s *BatchService) Create(ctx context.Context, req dto.BatchRequest) (*models.BatchDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	batch := &models.Batch{}
	applyBatch(batch, req, true)
	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, writeError(err, "batch", "create")
	}
	return s.Get(ctx, batch.ID)
}

// Update replaces the editable fields of a batch.
func (s *BatchService) Update(ctx context.Context, id string, req dto.BatchRequest) (*models.BatchDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "batch")
	}
	batch := existing.Batch
	applyBatch(&batch, req, batch.IsActive)
	if err := s.repo.Update(ctx, &batch); err != nil {
		return nil, writeError(err, "batch", "update")
	}
	return s.Get(ctx, id)
}

// Delete removes a batch.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "batch", "delete")
	}
	return nil
}

func (s *BatchService) validateRequest(req dto.BatchRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid batch payload")
	}
	if req.StartDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "start_date is required")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate.Time) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	return nil
}

func applyBatch(batch *models.Batch, req dto.BatchRequest, active bool) {
	batch.Name = strings.TrimSpace(req.Name)
	batch.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	batch.CourseID = req.CourseID
	batch.TrainerID = req.TrainerID
	batch.BranchID = req.BranchID
	batch.StartDate = req.StartDate
	batch.EndDate = req.EndDate
	batch.Schedule = req.Schedule
	batch.Timings = req.Timings
	batch.Capacity = req.Capacity
	batch.IsActive = boolOr(req.IsActive, active)
}
