// Package router assembles the HTTP surface of the API.
package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/authz"
	"github.com/noah-isme/institute-erp-api/internal/handler"
	"github.com/noah-isme/institute-erp-api/internal/middleware"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/institute-erp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/institute-erp-api/pkg/middleware/requestid"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// PrincipalResolver loads the caller's profile and roles.
type PrincipalResolver interface {
	Current(ctx context.Context, userID string) (*models.AuthContext, error)
}

// AuditRecorder persists audit rows of successful mutations.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// MetricsObserver records request timings.
type MetricsObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Handlers groups every resource handler.
type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Dashboard    *handler.DashboardHandler
	Students     *handler.StudentHandler
	Courses      *handler.CourseHandler
	Batches      *handler.BatchHandler
	Enrollments  *handler.EnrollmentHandler
	Attendance   *handler.AttendanceHandler
	Receipts     *handler.ReceiptHandler
	Certificates *handler.CertificateHandler
	Staff        *handler.StaffHandler
	Branches     *handler.BranchHandler
	Settings     *handler.SettingHandler
	Reports      *handler.ReportHandler
	Files        *handler.FileHandler
	Metrics      *handler.MetricsHandler
}

// Options configures the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Tokens         TokenValidator
	Profiles       PrincipalResolver
	Audit          AuditRecorder
	Metrics        MetricsObserver
}

// New builds the gin engine with global middleware, public routes and the guarded API.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/sign-in", h.Auth.SignIn)
	auth.POST("/sign-up", h.Auth.SignUp)
	auth.POST("/refresh", h.Auth.Refresh)
	api.GET("/files/:token", h.Files.Download)

	secured := api.Group("")
	secured.Use(middleware.Authenticate(opts.Tokens, opts.Profiles))

	audit := func(resource authz.Resource) gin.HandlerFunc {
		if opts.Audit == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.Audit(opts.Audit, string(resource), log)
	}
	can := middleware.Authorize

	secured.POST("/auth/sign-out", h.Auth.SignOut)
	secured.POST("/auth/change-password", h.Auth.ChangePassword)

	secured.GET("/profile", can(authz.ActionRead, authz.ResourceProfile), h.Profile.Me)
	secured.PUT("/profile", can(authz.ActionUpdate, authz.ResourceProfile), audit(authz.ResourceProfile), h.Profile.Update)
	secured.GET("/navigation", h.Profile.Navigation)
	secured.GET("/dashboard", can(authz.ActionRead, authz.ResourceDashboard), h.Dashboard.Stats)
	secured.GET("/system/metrics", can(authz.ActionUpdate, authz.ResourceSettings), h.Metrics.Snapshot)

	students := secured.Group("/students", audit(authz.ResourceStudents))
	students.GET("", can(authz.ActionRead, authz.ResourceStudents), h.Students.List)
	students.GET("/:id", can(authz.ActionRead, authz.ResourceStudents), h.Students.Get)
	students.POST("", can(authz.ActionCreate, authz.ResourceStudents), h.Students.Create)
	students.PUT("/:id", can(authz.ActionUpdate, authz.ResourceStudents), h.Students.Update)
	students.DELETE("/:id", can(authz.ActionDelete, authz.ResourceStudents), h.Students.Delete)

	courses := secured.Group("/courses", audit(authz.ResourceCourses))
	courses.GET("", can(authz.ActionRead, authz.ResourceCourses), h.Courses.List)
	courses.GET("/:id", can(authz.ActionRead, authz.ResourceCourses), h.Courses.Get)
	courses.POST("", can(authz.ActionCreate, authz.ResourceCourses), h.Courses.Create)
	courses.PUT("/:id", can(authz.ActionUpdate, authz.ResourceCourses), h.Courses.Update)
	courses.DELETE("/:id", can(authz.ActionDelete, authz.ResourceCourses), h.Courses.Delete)

	batches := secured.Group("/batches", audit(authz.ResourceBatches))
	batches.GET("", can(authz.ActionRead, authz.ResourceBatches), h.Batches.List)
	batches.GET("/trainers", can(authz.ActionRead, authz.ResourceBatches), h.Batches.Trainers)
	batches.GET("/:id", can(authz.ActionRead, authz.ResourceBatches), h.Batches.Get)
	batches.POST("", can(authz.ActionCreate, authz.ResourceBatches), h.Batches.Create)
	batches.PUT("/:id", can(authz.ActionUpdate, authz.ResourceBatches), h.Batches.Update)
	batches.DELETE("/:id", can(authz.ActionDelete, authz.ResourceBatches), h.Batches.Delete)

	enrollments := secured.Group("/enrollments", audit(authz.ResourceEnrollments))
	enrollments.GET("", can(authz.ActionRead, authz.ResourceEnrollments), h.Enrollments.List)
	enrollments.GET("/:id", can(authz.ActionRead, authz.ResourceEnrollments), h.Enrollments.Get)
	enrollments.POST("", can(authz.ActionCreate, authz.ResourceEnrollments), h.Enrollments.Create)
	enrollments.PUT("/:id", can(authz.ActionUpdate, authz.ResourceEnrollments), h.Enrollments.Update)
	enrollments.PATCH("/:id/status", can(authz.ActionUpdate, authz.ResourceEnrollments), h.Enrollments.UpdateStatus)
	enrollments.DELETE("/:id", can(authz.ActionDelete, authz.ResourceEnrollments), h.Enrollments.Delete)

	attendance := secured.Group("/attendance", audit(authz.ResourceAttendance))
	attendance.GET("", can(authz.ActionRead, authz.ResourceAttendance), h.Attendance.Roster)
	attendance.GET("/summary", can(authz.ActionRead, authz.ResourceAttendance), h.Attendance.Summary)
	attendance.PUT("", can(authz.ActionUpdate, authz.ResourceAttendance), h.Attendance.Save)

	receipts := secured.Group("/receipts", audit(authz.ResourceReceipts))
	receipts.GET("", can(authz.ActionRead, authz.ResourceReceipts), h.Receipts.List)
	receipts.GET("/:id", can(authz.ActionRead, authz.ResourceReceipts), h.Receipts.Get)
	receipts.GET("/:id/document", can(authz.ActionRead, authz.ResourceReceipts), h.Receipts.Document)
	receipts.GET("/:id/archive", can(authz.ActionRead, authz.ResourceReceipts), h.Receipts.Archive)
	receipts.POST("", can(authz.ActionCreate, authz.ResourceReceipts), h.Receipts.Create)
	receipts.POST("/:id/void", can(authz.ActionUpdate, authz.ResourceReceipts), h.Receipts.Void)
	receipts.POST("/:id/refund", can(authz.ActionUpdate, authz.ResourceReceipts), h.Receipts.Refund)
	receipts.DELETE("/:id", can(authz.ActionDelete, authz.ResourceReceipts), h.Receipts.Delete)

	certificates := secured.Group("/certificates", audit(authz.ResourceCertificates))
	certificates.GET("", can(authz.ActionRead, authz.ResourceCertificates), h.Certificates.List)
	certificates.GET("/:id", can(authz.ActionRead, authz.ResourceCertificates), h.Certificates.Get)
	certificates.GET("/:id/document", can(authz.ActionRead, authz.ResourceCertificates), h.Certificates.Document)
	certificates.GET("/:id/archive", can(authz.ActionRead, authz.ResourceCertificates), h.Certificates.Archive)
	certificates.POST("", can(authz.ActionCreate, authz.ResourceCertificates), h.Certificates.Issue)
	certificates.POST("/:id/revoke", can(authz.ActionUpdate, authz.ResourceCertificates), h.Certificates.Revoke)
	certificates.DELETE("/:id", can(authz.ActionDelete, authz.ResourceCertificates), h.Certificates.Delete)

	staff := secured.Group("/staff", audit(authz.ResourceStaff))
	staff.GET("", can(authz.ActionRead, authz.ResourceStaff), h.Staff.List)
	staff.GET("/:id", can(authz.ActionRead, authz.ResourceStaff), h.Staff.Get)
	staff.POST("", can(authz.ActionCreate, authz.ResourceStaff), h.Staff.Create)
	staff.PUT("/:id", can(authz.ActionUpdate, authz.ResourceStaff), h.Staff.Update)
	staff.DELETE("/:id", can(authz.ActionDelete, authz.ResourceStaff), h.Staff.Deactivate)
	staff.POST("/:id/roles", can(authz.ActionUpdate, authz.ResourceStaff), h.Staff.AssignRole)
	staff.DELETE("/:id/roles/:role", can(authz.ActionUpdate, authz.ResourceStaff), h.Staff.RevokeRole)

	branches := secured.Group("/branches", audit(authz.ResourceBranches))
	branches.GET("", can(authz.ActionRead, authz.ResourceBranches), h.Branches.List)
	branches.GET("/:id", can(authz.ActionRead, authz.ResourceBranches), h.Branches.Get)
	branches.POST("", can(authz.ActionCreate, authz.ResourceBranches), h.Branches.Create)
	branches.PUT("/:id", can(authz.ActionUpdate, authz.ResourceBranches), h.Branches.Update)
	branches.DELETE("/:id", can(authz.ActionDelete, authz.ResourceBranches), h.Branches.Delete)

	settings := secured.Group("/settings", audit(authz.ResourceSettings))
	settings.GET("", can(authz.ActionRead, authz.ResourceSettings), h.Settings.List)
	settings.PUT("", can(authz.ActionUpdate, authz.ResourceSettings), h.Settings.Bulk)
	settings.GET("/:key", can(authz.ActionRead, authz.ResourceSettings), h.Settings.Get)
	settings.PUT("/:key", can(authz.ActionUpdate, authz.ResourceSettings), h.Settings.Upsert)
	settings.DELETE("/:key", can(authz.ActionDelete, authz.ResourceSettings), h.Settings.Delete)

	reports := secured.Group("/reports")
	reports.GET("/summary", can(authz.ActionRead, authz.ResourceReports), h.Reports.Summary)
	reports.POST("/export", can(authz.ActionCreate, authz.ResourceReports), h.Reports.Export)

	return r
}
