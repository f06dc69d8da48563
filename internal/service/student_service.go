package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

// admissionAttempts bounds how many fresh admission numbers are tried before giving up.
const admissionAttempts = 5

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByAdmissionNumber(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

var studentSearchFields search.Fields[models.Student] = func(s models.Student) []string {
	return []string{s.FullName, s.AdmissionNumber, s.Phone, search.Deref(s.Email)}
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	intn      func(n int) int
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger, now: time.Now, intn: rand.Intn}
}

// List returns students matching the query.
func (s *StudentService) List(ctx context.Context, q dto.ListQuery) ([]models.Student, *models.Pagination, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to list students")
	}
	items, pagination := listPage(students, q, studentSearchFields)
	return items, pagination, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	return student, nil
}

// Create registers a student under a freshly generated admission number.
func (s *StudentService) Create(ctx context.Context, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := &models.Student{}
	applyStudent(student, req, true)

	for attempt := 0; attempt < admissionAttempts; attempt++ {
		number := s.admissionNumber()
		exists, err := s.repo.ExistsByAdmissionNumber(ctx, number)
		if err != nil {
			return nil, internalError(err, "failed to check admission number")
		}
		if exists {
			continue
		}
		student.ID = ""
		student.AdmissionNumber = number
		err = s.repo.Create(ctx, student)
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, database.ErrUniqueViolation) {
			return nil, writeError(err, "student", "create")
		}
		s.logger.Debug("admission number taken, retrying", zap.String("admission_number", number))
	}
	return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique admission number, try again")
}

// Update replaces the editable fields of a student. The admission number is kept.
func (s *StudentService) Update(ctx context.Context, id string, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	applyStudent(student, req, student.IsActive)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, writeError(err, "student", "update")
	}
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "student", "delete")
	}
	return nil
}

// admissionNumber formats GT, the current year and four random digits.
func (s *StudentService) admissionNumber() string {
	return fmt.Sprintf("GT%04d%04d", s.now().Year(), s.intn(10000))
}

func applyStudent(student *models.Student, req dto.StudentRequest, active bool) {
	student.FullName = strings.TrimSpace(req.FullName)
	student.Email = req.Email
	student.Phone = strings.TrimSpace(req.Phone)
	student.AlternatePhone = req.AlternatePhone
	student.Address = req.Address
	student.DateOfBirth = req.DateOfBirth
	student.Gender = req.Gender
	student.GuardianName = req.GuardianName
	student.GuardianPhone = req.GuardianPhone
	student.Qualification = req.Qualification
	student.Notes = req.Notes
	student.PhotoURL = req.PhotoURL
	student.BranchID = req.BranchID
	student.IsActive = boolOr(req.IsActive, active)
}
