package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

var courseSearchFields search.Fields[models.Course] = func(c models.Course) []string {
	return []string{c.Name, c.Code}
}

// CourseService manages the course catalogue.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns courses matching the query.
func (s *CourseService) List(ctx context.Context, q dto.ListQuery) ([]models.Course, *models.Pagination, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to list courses")
	}
	items, pagination := listPage(courses, q, courseSearchFields)
	return items, pagination, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return course, nil
}

// Create stores a course. The code is stored upper-cased.
func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course := &models.Course{}
	applyCourse(course, req, true)
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "course", "create")
	}
	return course, nil
}

// Update replaces the editable fields of a course.
func (s *CourseService) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	applyCourse(course, req, course.IsActive)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, writeError(err, "course", "update")
	}
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "course", "delete")
	}
	return nil
}

func applyCourse(course *models.Course, req dto.CourseRequest, active bool) {
	course.Name = strings.TrimSpace(req.Name)
	course.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	course.Description = req.Description
	course.DurationHours = req.DurationHours
	course.DurationDays = req.DurationDays
	course.FeeAmount = req.FeeAmount
	course.Syllabus = req.Syllabus
	course.BranchID = req.BranchID
	course.IsActive = boolOr(req.IsActive, active)
}
