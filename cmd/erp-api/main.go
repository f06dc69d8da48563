package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	_ "github.com/noah-isme/institute-erp-api/api/swagger"
	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/handler"
	"github.com/noah-isme/institute-erp-api/internal/repository"
	"github.com/noah-isme/institute-erp-api/internal/router"
	"github.com/noah-isme/institute-erp-api/internal/service"
	"github.com/noah-isme/institute-erp-api/pkg/cache"
	"github.com/noah-isme/institute-erp-api/pkg/config"
	"github.com/noah-isme/institute-erp-api/pkg/database"
	"github.com/noah-isme/institute-erp-api/pkg/jobs"
	"github.com/noah-isme/institute-erp-api/pkg/logger"
	"github.com/noah-isme/institute-erp-api/pkg/storage"
)

// @title Institute ERP API
// @version 1.0.0
// @description Students, courses, batches, fees and certificates of a training institute
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis, cfg.Cache.Enabled)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	broker := service.NewSessionBroker(logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.DashboardTTL, logr, redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	reportRepo := repository.NewReportRepository(db)

	renderer, err := newRenderer(cfg.Documents)
	if err != nil {
		logr.Fatal("failed to init document renderer", zap.Error(err))
	}

	files, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		logr.Fatal("failed to init file storage", zap.Error(err))
	}
	signer := storage.NewURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
	fileSvc := service.NewFileService(files, signer, cfg.APIPrefix, logr)

	archiveStore, err := newArchiveStore(cfg.Archive, files)
	if err != nil {
		logr.Warn("archive store unavailable, archiving disabled", zap.Error(err))
		archiveStore = nil
	}
	archiveSvc := service.NewArchiveService(service.ArchiveServiceParams{
		Receipts:     receiptRepo,
		Certificates: certificateRepo,
		Renderer:     renderer,
		Store:        archiveStore,
		Links:        fileSvc,
		Metrics:      metricsSvc,
		Logger:       logr,
		Enabled:      cfg.Archive.Enabled && archiveStore != nil,
		Queue: jobs.QueueConfig{
			Workers:    cfg.Archive.Workers,
			MaxRetries: cfg.Archive.Retries,
			RetryDelay: cfg.Archive.RetryDelay,
			JobTimeout: cfg.Documents.RenderTimeout * 2,
		},
	})

	authSvc := service.NewAuthService(userRepo, staffRepo, broker, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	profileSvc := service.NewProfileService(userRepo, staffRepo, cacheSvc, broker, cfg.Cache.ProfileTTL, validate, logr)
	staffSvc := service.NewStaffService(staffRepo, userRepo, broker, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	branchSvc := service.NewBranchService(branchRepo, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, staffRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, batchRepo, studentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, batchRepo, validate, logr)
	receiptSvc := service.NewReceiptService(receiptRepo, studentRepo, enrollmentRepo, renderer, archiveSvc, metricsSvc, validate, logr)
	certificateSvc := service.NewCertificateService(certificateRepo, enrollmentRepo, attendanceRepo, renderer, archiveSvc, metricsSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, metricsSvc, cfg.Cache.DashboardTTL, logr)
	reportSvc := service.NewReportService(reportRepo, files, fileSvc, cacheSvc, metricsSvc, validate, logr, service.ReportServiceConfig{
		CacheTTL:        cfg.Cache.ReportsTTL,
		ExportRetention: cfg.Exports.Retention,
	})
	settingSvc := service.NewSettingService(settingRepo, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archiveSvc.Start(ctx)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Exports.CleanupSchedule, func() {
		removed, err := reportSvc.Cleanup(ctx)
		if err != nil {
			logr.Warn("export cleanup failed", zap.Error(err))
			return
		}
		if len(removed) > 0 {
			logr.Info("expired exports removed", zap.Int("count", len(removed)))
		}
	}); err != nil {
		logr.Fatal("invalid export cleanup schedule", zap.String("schedule", cfg.Exports.CleanupSchedule), zap.Error(err))
	}
	scheduler.Start()

	engine := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Tokens:         authSvc,
		Profiles:       profileSvc,
		Audit:          userRepo,
		Metrics:        metricsSvc,
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Profile:      handler.NewProfileHandler(profileSvc, cfg.Navigation.EmptyRolesFullMenu),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Students:     handler.NewStudentHandler(studentSvc),
		Courses:      handler.NewCourseHandler(courseSvc),
		Batches:      handler.NewBatchHandler(batchSvc),
		Enrollments:  handler.NewEnrollmentHandler(enrollmentSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc),
		Receipts:     handler.NewReceiptHandler(receiptSvc, archiveSvc),
		Certificates: handler.NewCertificateHandler(certificateSvc, archiveSvc),
		Staff:        handler.NewStaffHandler(staffSvc),
		Branches:     handler.NewBranchHandler(branchSvc),
		Settings:     handler.NewSettingHandler(settingSvc),
		Reports:      handler.NewReportHandler(reportSvc),
		Files:        handler.NewFileHandler(fileSvc),
		Metrics:      handler.NewMetricsHandler(metricsSvc, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	<-scheduler.Stop().Done()
	archiveSvc.Stop()
}

func newRenderer(cfg config.DocumentConfig) (*document.Renderer, error) {
	branding := document.DefaultBranding(cfg.InstituteName, cfg.InstituteTagline, cfg.AcademyName, cfg.AcademyTagline)
	var engine document.PDFEngine
	switch cfg.PDFEngine {
	case config.PDFEngineChromium:
		engine = document.NewChromiumEngine(cfg.ChromiumPath)
	default:
		engine = document.NewGofpdfEngine()
	}
	return document.NewRenderer(branding, engine, cfg.RenderTimeout)
}

func newArchiveStore(cfg config.ArchiveConfig, local *storage.LocalStorage) (storage.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case config.ArchiveBackendCloudinary:
		return storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.Folder)
	default:
		return local, nil
	}
}
