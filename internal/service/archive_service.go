package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/jobs"
	"github.com/noah-isme/institute-erp-api/pkg/storage"
)

type archivedReceipts interface {
	FindDetailByID(ctx context.Context, id string) (*models.ReceiptDetail, error)
	SetDocumentPath(ctx context.Context, id, path string) error
}

type archivedCertificates interface {
	FindDetailByID(ctx context.Context, id string) (*models.CertificateDetail, error)
	SetDocumentPath(ctx context.Context, id, path string) error
}

type archiveRenderer interface {
	receiptRenderer
	certificateRenderer
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// ArchiveService renders issued receipts and certificates to PDF in the background and
// records where the file was stored.
type ArchiveService struct {
	receipts     archivedReceipts
	certificates archivedCertificates
	renderer     archiveRenderer
	store        storage.Store
	links        downloadLinker
	queue        jobQueue
	metrics      *MetricsService
	logger       *zap.Logger
	enabled      bool
}

// ArchiveServiceParams groups constructor dependencies.
type ArchiveServiceParams struct {
	Receipts     archivedReceipts
	Certificates archivedCertificates
	Renderer     archiveRenderer
	Store        storage.Store
	Links        downloadLinker
	Metrics      *MetricsService
	Logger       *zap.Logger
	Enabled      bool
	Queue        jobs.QueueConfig
}

// NewArchiveService constructs the service and its worker queue. Call Start before issuing.
func NewArchiveService(params ArchiveServiceParams) *ArchiveService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ArchiveService{
		receipts:     params.Receipts,
		certificates: params.Certificates,
		renderer:     params.Renderer,
		store:        params.Store,
		links:        params.Links,
		metrics:      params.Metrics,
		logger:       logger,
		enabled:      params.Enabled && params.Store != nil,
	}
	if s.enabled {
		cfg := params.Queue
		cfg.Logger = logger
		s.queue = jobs.NewQueue("document-archive", s.Process, cfg)
	}
	return s
}

// Start launches the archive workers when archiving is enabled.
func (s *ArchiveService) Start(ctx context.Context) {
	if q, ok := s.queue.(*jobs.Queue); ok {
		q.Start(ctx)
	}
}

// Stop drains the archive workers.
func (s *ArchiveService) Stop() {
	if q, ok := s.queue.(*jobs.Queue); ok {
		q.Stop()
	}
}

// ArchiveReceipt queues a receipt for archiving.
func (s *ArchiveService) ArchiveReceipt(id string) {
	s.enqueue(models.ArchiveKindReceipt, id)
}

// ArchiveCertificate queues a certificate for archiving.
func (s *ArchiveService) ArchiveCertificate(id string) {
	s.enqueue(models.ArchiveKindCertificate, id)
}

func (s *ArchiveService) enqueue(kind models.ArchiveKind, id string) {
	if !s.enabled || s.queue == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: string(kind), Payload: id}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("archive enqueue failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
	}
}

// Process renders and stores one queued document. Returned errors are retried by the queue.
func (s *ArchiveService) Process(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok || id == "" {
		return fmt.Errorf("archive job %s: unexpected payload %T", job.ID, job.Payload)
	}
	kind := models.ArchiveKind(job.Type)

	var err error
	switch kind {
	case models.ArchiveKindReceipt:
		err = s.archiveReceipt(ctx, id)
	case models.ArchiveKindCertificate:
		err = s.archiveCertificate(ctx, id)
	default:
		err = fmt.Errorf("archive job %s: unknown kind %q", job.ID, job.Type)
	}
	s.metrics.ObserveArchiveJob(string(kind), err)
	if err != nil {
		return err
	}
	s.logger.Info("document archived", zap.String("kind", string(kind)), zap.String("id", id), zap.Int("attempt", job.Attempt+1))
	return nil
}

func (s *ArchiveService) archiveReceipt(ctx context.Context, id string) error {
	receipt, err := s.receipts.FindDetailByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load receipt %s: %w", id, err)
	}
	doc, err := s.render(ctx, models.ArchiveKindReceipt, func() (*document.Document, error) {
		return s.renderer.Receipt(ctx, receipt, document.FormatPDF)
	})
	if err != nil {
		return err
	}
	location, err := s.put(ctx, "receipts/"+doc.FileName, doc)
	if err != nil {
		return err
	}
	return s.receipts.SetDocumentPath(ctx, id, location)
}

func (s *ArchiveService) archiveCertificate(ctx context.Context, id string) error {
	certificate, err := s.certificates.FindDetailByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load certificate %s: %w", id, err)
	}
	doc, err := s.render(ctx, models.ArchiveKindCertificate, func() (*document.Document, error) {
		return s.renderer.Certificate(ctx, certificate, document.FormatPDF)
	})
	if err != nil {
		return err
	}
	location, err := s.put(ctx, "certificates/"+doc.FileName, doc)
	if err != nil {
		return err
	}
	return s.certificates.SetDocumentPath(ctx, id, location)
}

func (s *ArchiveService) render(ctx context.Context, kind models.ArchiveKind, fn func() (*document.Document, error)) (*document.Document, error) {
	start := time.Now()
	doc, err := fn()
	s.metrics.ObserveDocumentRender(string(kind), string(document.FormatPDF), err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}
	return doc, nil
}

func (s *ArchiveService) put(ctx context.Context, key string, doc *document.Document) (string, error) {
	obj, err := s.store.Put(ctx, key, doc.Body, doc.ContentType)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return obj.Location(), nil
}

// ReceiptLink returns where the archived PDF of a receipt can be downloaded.
func (s *ArchiveService) ReceiptLink(ctx context.Context, id string) (*models.ArchiveLink, error) {
	receipt, err := s.receipts.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "receipt")
	}
	return s.link(models.ArchiveKindReceipt, id, receipt.DocumentPath)
}

// CertificateLink returns where the archived PDF of a certificate can be downloaded.
func (s *ArchiveService) CertificateLink(ctx context.Context, id string) (*models.ArchiveLink, error) {
	certificate, err := s.certificates.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "certificate")
	}
	return s.link(models.ArchiveKindCertificate, id, certificate.DocumentPath)
}

func (s *ArchiveService) link(kind models.ArchiveKind, id string, path *string) (*models.ArchiveLink, error) {
	if path == nil || *path == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document has not been archived yet")
	}
	if isRemote(*path) {
		return &models.ArchiveLink{Kind: kind, ID: id, URL: *path, Remote: true}, nil
	}
	url, expiresAt, err := s.links.Link(string(kind), *path)
	if err != nil {
		return nil, err
	}
	return &models.ArchiveLink{Kind: kind, ID: id, URL: url, ExpiresAt: &expiresAt}, nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://")
}
