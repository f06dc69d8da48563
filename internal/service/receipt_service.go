package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

type receiptRepository interface {
	List(ctx context.Context, studentID string) ([]models.ReceiptDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.ReceiptDetail, error)
	NextReceiptNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, receipt *models.Receipt) error
	UpdateStatus(ctx context.Context, id string, status models.ReceiptStatus, reason *string) error
	Delete(ctx context.Context, id string) error
}

type enrollmentLookup interface {
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
}

type receiptRenderer interface {
	Receipt(ctx context.Context, receipt *models.ReceiptDetail, format document.Format) (*document.Document, error)
}

// documentArchiver queues the background PDF archive of issued documents.
type documentArchiver interface {
	ArchiveReceipt(id string)
	ArchiveCertificate(id string)
}

var receiptSearchFields search.Fields[models.ReceiptDetail] = func(r models.ReceiptDetail) []string {
	return []string{r.ReceiptNumber, r.StudentName, r.AdmissionNumber}
}

// ReceiptService records fee payments and renders their receipts.
type ReceiptService struct {
	repo        receiptRepository
	students    studentLookup
	enrollments enrollmentLookup
	renderer    receiptRenderer
	archiver    documentArchiver
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewReceiptService constructs the receipt service. archiver may be nil.
func NewReceiptService(repo receiptRepository, students studentLookup, enrollments enrollmentLookup, renderer receiptRenderer, archiver documentArchiver, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ReceiptService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		repo:        repo,
		students:    students,
		enrollments: enrollments,
		renderer:    renderer,
		archiver:    archiver,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns receipts newest first.
func (s *ReceiptService) List(ctx context.Context, q dto.ReceiptQuery) ([]models.ReceiptDetail, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, validationError(err, "invalid receipt query")
	}
	receipts, err := s.repo.List(ctx, q.StudentID)
	if err != nil {
		return nil, nil, internalError(err, "failed to list receipts")
	}
	items, pagination := listPage(receipts, q.ListQuery, receiptSearchFields)
	return items, pagination, nil
}

// Get returns one receipt.
func (s *ReceiptService) Get(ctx context.Context, id string) (*models.ReceiptDetail, error) {
	receipt, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "receipt")
	}
	return receipt, nil
}

// Create records a payment under the next number from the database generator.
func (s *ReceiptService) Create(ctx context.Context, req dto.ReceiptRequest, actor *models.Principal) (*models.ReceiptDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid receipt payload")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if req.EnrollmentID != nil && *req.EnrollmentID != "" {
		enrollment, err := s.enrollments.FindDetailByID(ctx, *req.EnrollmentID)
		if err != nil {
			return nil, lookupError(err, "enrollment")
		}
		if enrollment.StudentID != student.ID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "enrollment does not belong to this student")
		}
	} else {
		req.EnrollmentID = nil
	}

	number, err := s.repo.NextReceiptNumber(ctx)
	if err != nil {
		return nil, internalError(err, "failed to generate receipt number")
	}

	receipt := &models.Receipt{
		ReceiptNumber: number,
		ReceiptType:   models.ReceiptTypeAcademy,
		StudentID:     student.ID,
		EnrollmentID:  req.EnrollmentID,
		BranchID:      student.BranchID,
		Amount:        req.Amount,
		PaymentMode:   models.PaymentMode(req.PaymentMode),
		PaymentDate:   models.NewDate(s.now()),
		Description:   req.Description,
		Remarks:       req.Remarks,
		Status:        models.ReceiptStatusValid,
	}
	if req.ReceiptType != "" {
		receipt.ReceiptType = models.ReceiptType(req.ReceiptType)
	}
	if req.PaymentDate != nil && !req.PaymentDate.IsZero() {
		receipt.PaymentDate = *req.PaymentDate
	}
	if actor != nil && actor.ProfileID != "" {
		receipt.GeneratedBy = &actor.ProfileID
	}

	if err := s.repo.Create(ctx, receipt); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Receipt number already used, try again")
		}
		return nil, writeError(err, "receipt", "create")
	}
	s.logger.Info("receipt issued", zap.String("receipt_id", receipt.ID), zap.String("receipt_number", number), zap.Float64("amount", receipt.Amount))

	if s.archiver != nil {
		s.archiver.ArchiveReceipt(receipt.ID)
	}
	return s.Get(ctx, receipt.ID)
}

// Void cancels a valid receipt.
func (s *ReceiptService) Void(ctx context.Context, id string, req dto.ReasonRequest) (*models.ReceiptDetail, error) {
	return s.transition(ctx, id, models.ReceiptStatusVoided, req)
}

// Refund marks a valid receipt as refunded.
func (s *ReceiptService) Refund(ctx context.Context, id string, req dto.ReasonRequest) (*models.ReceiptDetail, error) {
	return s.transition(ctx, id, models.ReceiptStatusRefunded, req)
}

func (s *ReceiptService) transition(ctx context.Context, id string, status models.ReceiptStatus, req dto.ReasonRequest) (*models.ReceiptDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid reason")
	}
	existing, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "receipt")
	}
	if existing.Status != models.ReceiptStatusValid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "receipt is already "+string(existing.Status))
	}
	reason := req.Reason
	if err := s.repo.UpdateStatus(ctx, id, status, &reason); err != nil {
		return nil, writeError(err, "receipt", "update")
	}
	s.logger.Info("receipt status changed", zap.String("receipt_id", id), zap.String("status", string(status)))
	return s.Get(ctx, id)
}

// Delete removes a receipt.
func (s *ReceiptService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "receipt", "delete")
	}
	return nil
}

// Document renders a receipt in the requested format.
func (s *ReceiptService) Document(ctx context.Context, id, rawFormat string) (*document.Document, error) {
	format, err := document.ParseFormat(rawFormat)
	if err != nil {
		return nil, validationError(err, "invalid document format")
	}
	receipt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	doc, err := s.renderer.Receipt(ctx, receipt, format)
	s.metrics.ObserveDocumentRender("receipt", string(format), err, time.Since(start))
	if err != nil {
		return nil, renderError(err, "receipt")
	}
	return doc, nil
}

// renderError keeps typed renderer errors such as DOCUMENT_UNAVAILABLE and wraps the rest.
func renderError(err error, kind string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return internalError(err, "failed to render "+kind)
}
