package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/cache"
	"github.com/noah-isme/institute-erp-api/pkg/export"
)

const (
	defaultReportMonths = 6
	reportExportDir     = "reports"
	reportMonthLayout   = "2006-01"
)

type reportRepository interface {
	MonthlyActivity(ctx context.Context, from, lastMonth time.Time) ([]models.ReportMonth, error)
}

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(dir string, ttl time.Duration) ([]string, error)
}

type downloadLinker interface {
	Link(scope, relPath string) (string, time.Time, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ReportServiceConfig tunes caching and export retention.
type ReportServiceConfig struct {
	CacheTTL        time.Duration
	ExportRetention time.Duration
}

// ReportService builds the monthly activity report and its downloadable exports.
type ReportService struct {
	repo      reportRepository
	storage   reportStorage
	links     downloadLinker
	csv       csvRenderer
	pdf       pdfRenderer
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, storage reportStorage, links downloadLinker, cacheSvc *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.ExportRetention <= 0 {
		cfg.ExportRetention = 24 * time.Hour
	}
	return &ReportService{
		repo:      repo,
		storage:   storage,
		links:     links,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		cache:     cacheSvc,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Summary returns the per-month series ending with the current month. Months without
// activity are present with zero values.
func (s *ReportService) Summary(ctx context.Context, q dto.ReportQuery) (*models.ReportSummary, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, validationError(err, "months must be 6 or 12")
	}
	months := q.Months
	if months == 0 {
		months = defaultReportMonths
	}
	now := s.now().UTC()
	lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := lastMonth.AddDate(0, -(months - 1), 0)

	key := cache.Key("reports", "summary", strconv.Itoa(months), from.Format(reportMonthLayout))
	var cached models.ReportSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	rows, err := s.repo.MonthlyActivity(ctx, from, lastMonth)
	s.metrics.ObserveDBQuery("report_monthly_activity", time.Since(start))
	if err != nil {
		return nil, internalError(err, "failed to build report")
	}

	summary := buildReportSummary(rows, from, months)
	summary.GeneratedAt = now
	s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return summary, nil
}

// Export renders the summary as CSV or PDF, stores it and returns a signed download link.
func (s *ReportService) Export(ctx context.Context, req dto.ReportExportRequest) (*models.ReportExport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid export request")
	}
	summary, err := s.Summary(ctx, dto.ReportQuery{Months: req.Months})
	if err != nil {
		return nil, err
	}

	dataset := reportDataset(summary)
	var payload []byte
	switch req.Format {
	case "pdf":
		payload, err = s.pdf.Render(dataset)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, internalError(err, "failed to render export")
	}

	fileName := fmt.Sprintf("activity_%dm_%s.%s", summary.Months, s.now().UTC().Format("20060102_150405"), req.Format)
	relPath, err := s.storage.Save(reportExportDir+"/"+fileName, payload)
	if err != nil {
		return nil, internalError(err, "failed to store export")
	}
	url, expiresAt, err := s.links.Link("report", relPath)
	if err != nil {
		return nil, err
	}
	s.logger.Info("report exported", zap.String("path", relPath), zap.String("format", req.Format), zap.Int("bytes", len(payload)))
	return &models.ReportExport{Format: req.Format, FileName: fileName, URL: url, ExpiresAt: expiresAt}, nil
}

// Cleanup removes exports older than the configured retention.
func (s *ReportService) Cleanup(ctx context.Context) ([]string, error) {
	deleted, err := s.storage.CleanupOlderThan(reportExportDir, s.cfg.ExportRetention)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		s.logger.Info("report exports cleaned up", zap.Int("count", len(deleted)))
	}
	return deleted, nil
}

func buildReportSummary(rows []models.ReportMonth, from time.Time, months int) *models.ReportSummary {
	byMonth := make(map[string]models.ReportMonth, len(rows))
	for _, row := range rows {
		byMonth[row.MonthStart.UTC().Format(reportMonthLayout)] = row
	}

	summary := &models.ReportSummary{
		Months: months,
		From:   models.NewDate(from),
		To:     models.NewDate(from.AddDate(0, months, -1)),
		Series: make([]models.ReportMonth, 0, months),
	}
	for i := 0; i < months; i++ {
		start := from.AddDate(0, i, 0)
		label := start.Format(reportMonthLayout)
		row, ok := byMonth[label]
		if !ok {
			row = models.ReportMonth{MonthStart: start}
		}
		row.Month = label
		row.Revenue = round2(row.Revenue)
		row.AttendanceRate = round2(row.AttendanceRate)
		summary.Series = append(summary.Series, row)

		summary.Totals.Enrollments += row.Enrollments
		summary.Totals.Receipts += row.Receipts
		summary.Totals.Revenue += row.Revenue
		summary.Totals.Certificates += row.Certificates
	}
	summary.Totals.Revenue = round2(summary.Totals.Revenue)
	return summary
}

func reportDataset(summary *models.ReportSummary) export.Dataset {
	rows := make([][]string, 0, len(summary.Series))
	for _, m := range summary.Series {
		rows = append(rows, []string{
			m.Month,
			strconv.Itoa(m.Enrollments),
			strconv.Itoa(m.Receipts),
			fmt.Sprintf("%.2f", m.Revenue),
			strconv.Itoa(m.Certificates),
			fmt.Sprintf("%.2f", m.AttendanceRate),
		})
	}
	return export.Dataset{
		Title:    "Monthly Activity Report",
		Subtitle: fmt.Sprintf("%s to %s", summary.From.Format("Jan 2006"), summary.To.Format("Jan 2006")),
		Columns: []export.Column{
			{Header: "Month", Width: 1.2},
			{Header: "Enrollments", Align: export.AlignRight},
			{Header: "Receipts", Align: export.AlignRight},
			{Header: "Revenue (INR)", Align: export.AlignRight, Width: 1.4},
			{Header: "Certificates", Align: export.AlignRight},
			{Header: "Attendance %", Align: export.AlignRight},
		},
		Rows: rows,
		Footer: []string{
			"Total",
			strconv.Itoa(summary.Totals.Enrollments),
			strconv.Itoa(summary.Totals.Receipts),
			fmt.Sprintf("%.2f", summary.Totals.Revenue),
			strconv.Itoa(summary.Totals.Certificates),
			"",
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
