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

type certificateRepository interface {
	List(ctx context.Context) ([]models.CertificateDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.CertificateDetail, error)
	NextCertificateNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, certificate *models.Certificate) error
	Revoke(ctx context.Context, id, reason string) error
	Delete(ctx context.Context, id string) error
}

type attendanceSummarizer interface {
	Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error)
}

type certificateRenderer interface {
	Certificate(ctx context.Context, certificate *models.CertificateDetail, format document.Format) (*document.Document, error)
}

var certificateSearchFields search.Fields[models.CertificateDetail] = func(c models.CertificateDetail) []string {
	return []string{c.CertificateNumber, c.CourseName, c.StudentName}
}

// CertificateService issues completion certificates.
type CertificateService struct {
	repo        certificateRepository
	enrollments enrollmentLookup
	attendance  attendanceSummarizer
	renderer    certificateRenderer
	archiver    documentArchiver
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewCertificateService constructs the certificate service. archiver may be nil.
func NewCertificateService(repo certificateRepository, enrollments enrollmentLookup, attendance attendanceSummarizer, renderer certificateRenderer, archiver documentArchiver, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CertificateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{
		repo:        repo,
		enrollments: enrollments,
		attendance:  attendance,
		renderer:    renderer,
		archiver:    archiver,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns certificates newest first.
func (s *CertificateService) List(ctx context.Context, q dto.ListQuery) ([]models.CertificateDetail, *models.Pagination, error) {
	certificates, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to list certificates")
	}
	items, pagination := listPage(certificates, q, certificateSearchFields)
	return items, pagination, nil
}

// Get returns one certificate.
func (s *CertificateService) Get(ctx context.Context, id string) (*models.CertificateDetail, error) {
	certificate, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "certificate")
	}
	return certificate, nil
}

// Issue creates a certificate for an enrollment. Course and batch names are copied so later
// renames do not alter issued certificates.
func (s *CertificateService) Issue(ctx context.Context, req dto.CertificateRequest, actor *models.Principal) (*models.CertificateDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid certificate payload")
	}
	enrollment, err := s.enrollments.FindDetailByID(ctx, req.EnrollmentID)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}

	percentage := req.AttendancePercentage
	if percentage == nil {
		summary, err := s.attendance.Summary(ctx, enrollment.ID)
		if err != nil {
			return nil, internalError(err, "failed to compute attendance")
		}
		if summary.Total > 0 {
			p := summary.Percentage
			percentage = &p
		}
	}

	number, err := s.repo.NextCertificateNumber(ctx)
	if err != nil {
		return nil, internalError(err, "failed to generate certificate number")
	}

	certificate := &models.Certificate{
		CertificateNumber:    number,
		StudentID:            enrollment.StudentID,
		EnrollmentID:         enrollment.ID,
		BranchID:             enrollment.StudentBranchID,
		CourseName:           enrollment.CourseName,
		BatchName:            enrollment.BatchName,
		Grade:                req.Grade,
		AttendancePercentage: percentage,
		CompletionDate:       req.CompletionDate,
		IssueDate:            models.NewDate(s.now()),
		Status:               models.CertificateStatusIssued,
		TemplateID:           req.TemplateID,
	}
	if actor != nil && actor.ProfileID != "" {
		certificate.IssuedBy = &actor.ProfileID
	}
	if err := s.repo.Create(ctx, certificate); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Certificate number already used, try again")
		}
		return nil, writeError(err, "certificate", "create")
	}
	s.logger.Info("certificate issued", zap.String("certificate_id", certificate.ID), zap.String("certificate_number", number))

	if s.archiver != nil {
		s.archiver.ArchiveCertificate(certificate.ID)
	}
	return s.Get(ctx, certificate.ID)
}

// Revoke withdraws an issued certificate.
func (s *CertificateService) Revoke(ctx context.Context, id string, req dto.ReasonRequest) (*models.CertificateDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid reason")
	}
	existing, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "certificate")
	}
	if existing.Status == models.CertificateStatusRevoked {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "certificate is already revoked")
	}
	if err := s.repo.Revoke(ctx, id, req.Reason); err != nil {
		return nil, writeError(err, "certificate", "revoke")
	}
	s.logger.Info("certificate revoked", zap.String("certificate_id", id))
	return s.Get(ctx, id)
}

// Delete removes a certificate.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "certificate", "delete")
	}
	return nil
}

// Document renders a certificate in the requested format.
func (s *CertificateService) Document(ctx context.Context, id, rawFormat string) (*document.Document, error) {
	format, err := document.ParseFormat(rawFormat)
	if err != nil {
		return nil, validationError(err, "invalid document format")
	}
	certificate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	doc, err := s.renderer.Certificate(ctx, certificate, format)
	s.metrics.ObserveDocumentRender("certificate", string(format), err, time.Since(start))
	if err != nil {
		return nil, renderError(err, "certificate")
	}
	return doc, nil
}
