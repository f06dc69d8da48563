package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/handler"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/internal/service"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type stubTokens struct{}

func (stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if token == "" || token == "bad" {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.JWTClaims{UserID: token}, nil
}

type stubProfiles struct {
	roles map[string][]models.Role
}

func (s stubProfiles) Current(_ context.Context, userID string) (*models.AuthContext, error) {
	return &models.AuthContext{User: models.UserInfo{ID: userID}, Roles: s.roles[userID]}, nil
}

func (s stubProfiles) Update(ctx context.Context, userID string, _ dto.ProfileUpdateRequest) (*models.AuthContext, error) {
	return s.Current(ctx, userID)
}

type stubDashboard struct{}

func (stubDashboard) Stats(context.Context) (*models.DashboardStats, bool, error) {
	return &models.DashboardStats{ActiveStudents: 3}, true, nil
}

type recordedAudits struct {
	logs []*models.AuditLog
}

func (r *recordedAudits) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *recordedAudits) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	profiles := stubProfiles{roles: map[string][]models.Role{
		"trainer": {models.RoleTrainer},
		"admin":   {models.RoleAdmin},
	}}
	audits := &recordedAudits{}
	metrics := service.NewMetricsService()
	engine := New(Options{
		APIPrefix: "/api/v1",
		Tokens:    stubTokens{},
		Profiles:  profiles,
		Audit:     audits,
		Metrics:   metrics,
	}, Handlers{
		Auth:         handler.NewAuthHandler(nil),
		Profile:      handler.NewProfileHandler(profiles, true),
		Dashboard:    handler.NewDashboardHandler(stubDashboard{}),
		Students:     handler.NewStudentHandler(nil),
		Courses:      handler.NewCourseHandler(nil),
		Batches:      handler.NewBatchHandler(nil),
		Enrollments:  handler.NewEnrollmentHandler(nil),
		Attendance:   handler.NewAttendanceHandler(nil),
		Receipts:     handler.NewReceiptHandler(nil, nil),
		Certificates: handler.NewCertificateHandler(nil, nil),
		Staff:        handler.NewStaffHandler(nil),
		Branches:     handler.NewBranchHandler(nil),
		Settings:     handler.NewSettingHandler(nil),
		Reports:      handler.NewReportHandler(nil),
		Files:        handler.NewFileHandler(nil),
		Metrics:      handler.NewMetricsHandler(metrics, nil),
	})
	return engine, audits
}

func serve(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterPublicRoutes(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/metrics", "").Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, http.MethodGet, "/api/v1/timetable", "admin")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "route not found", body.Error["message"])
}

func TestRouterGuardsAPI(t *testing.T) {
	engine, _ := newTestEngine(t)

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/dashboard", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/dashboard", "bad").Code)
}

func TestRouterZeroRoleUserSeesDashboardOnly(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, http.MethodGet, "/api/v1/dashboard", "nobody")
	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body.Meta["cache_hit"])

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/students", "nobody").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/navigation", "nobody").Code)
}

func TestRouterRoleChecks(t *testing.T) {
	engine, audits := newTestEngine(t)

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/staff", "trainer").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodPost, "/api/v1/receipts", "trainer").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/system/metrics", "trainer").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/metrics", "admin").Code)
	assert.Empty(t, audits.logs)
}

func TestRouterNavigationFollowsRoles(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := serve(engine, http.MethodGet, "/api/v1/navigation", "trainer")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 3)
}
