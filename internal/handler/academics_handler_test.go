package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type fakeEnrollmentService struct {
	query  dto.EnrollmentQuery
	id     string
	status dto.EnrollmentStatusRequest
	actor  *models.Principal
	err    error
}

func (f *fakeEnrollmentService) List(_ context.Context, q dto.EnrollmentQuery) ([]models.EnrollmentDetail, *models.Pagination, error) {
	f.query = q
	return []models.EnrollmentDetail{}, &models.Pagination{Page: 1}, nil
}

func (f *fakeEnrollmentService) Get(_ context.Context, id string) (*models.EnrollmentDetail, error) {
	f.id = id
	return &models.EnrollmentDetail{}, f.err
}

func (f *fakeEnrollmentService) Create(_ context.Context, _ dto.EnrollmentRequest, actor *models.Principal) (*models.EnrollmentDetail, error) {
	f.actor = actor
	if f.err != nil {
		return nil, f.err
	}
	return &models.EnrollmentDetail{}, nil
}

func (f *fakeEnrollmentService) Update(_ context.Context, id string, _ dto.EnrollmentUpdateRequest) (*models.EnrollmentDetail, error) {
	f.id = id
	return &models.EnrollmentDetail{}, f.err
}

func (f *fakeEnrollmentService) UpdateStatus(_ context.Context, id string, req dto.EnrollmentStatusRequest) (*models.EnrollmentDetail, error) {
	f.id = id
	f.status = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.EnrollmentDetail{}, nil
}

func (f *fakeEnrollmentService) Delete(_ context.Context, id string) error {
	f.id = id
	return f.err
}

type fakeCertificateService struct {
	query  dto.ListQuery
	id     string
	reason dto.ReasonRequest
	actor  *models.Principal
	err    error
}

func (f *fakeCertificateService) List(_ context.Context, q dto.ListQuery) ([]models.CertificateDetail, *models.Pagination, error) {
	f.query = q
	return []models.CertificateDetail{}, &models.Pagination{Page: 1}, nil
}

func (f *fakeCertificateService) Get(_ context.Context, id string) (*models.CertificateDetail, error) {
	f.id = id
	return &models.CertificateDetail{}, f.err
}

func (f *fakeCertificateService) Issue(_ context.Context, _ dto.CertificateRequest, actor *models.Principal) (*models.CertificateDetail, error) {
	f.actor = actor
	return &models.CertificateDetail{}, f.err
}

func (f *fakeCertificateService) Revoke(_ context.Context, id string, req dto.ReasonRequest) (*models.CertificateDetail, error) {
	f.id = id
	f.reason = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.CertificateDetail{}, nil
}

func (f *fakeCertificateService) Delete(_ context.Context, id string) error {
	f.id = id
	return f.err
}

func (f *fakeCertificateService) Document(_ context.Context, id, _ string) (*document.Document, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &document.Document{FileName: "Certificate-CERT-1.html", ContentType: "text/html; charset=utf-8", Body: []byte("<html></html>")}, nil
}

func TestEnrollmentHandlerListPassesFilters(t *testing.T) {
	svc := &fakeEnrollmentService{}
	c, w := newGinContext(http.MethodGet, "/enrollments?batch_id=%20b-1%20&status=active&limit=10", nil)

	NewEnrollmentHandler(svc).List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b-1", svc.query.BatchID)
	assert.Equal(t, "active", svc.query.Status)
	assert.Equal(t, 10, svc.query.PageSize)
}

func TestEnrollmentHandlerListRejectsHugeLimit(t *testing.T) {
	svc := &fakeEnrollmentService{}
	c, w := newGinContext(http.MethodGet, "/enrollments?limit=100000", nil)

	NewEnrollmentHandler(svc).List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.query.PageSize)
}

func TestEnrollmentHandlerCreateRequiresPrincipal(t *testing.T) {
	svc := &fakeEnrollmentService{}
	c, w := newGinContext(http.MethodPost, "/enrollments", mustJSON(t, dto.EnrollmentRequest{}))

	NewEnrollmentHandler(svc).Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, svc.actor)
}

func TestEnrollmentHandlerCreateBatchFull(t *testing.T) {
	svc := &fakeEnrollmentService{err: appErrors.Clone(appErrors.ErrConflict, "Batch is full")}
	c, w := newGinContext(http.MethodPost, "/enrollments", mustJSON(t, dto.EnrollmentRequest{StudentID: "s-1", BatchID: "b-1"}))
	withPrincipal(c, &models.Principal{UserID: "u-1", ProfileID: "p-1"})

	NewEnrollmentHandler(svc).Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Batch is full", decodeEnvelope(t, w).Error["message"])
	assert.Equal(t, "p-1", svc.actor.ProfileID)
}

func TestEnrollmentHandlerUpdateStatus(t *testing.T) {
	svc := &fakeEnrollmentService{}
	c, w := newGinContext(http.MethodPatch, "/enrollments/e-1/status", mustJSON(t, dto.EnrollmentStatusRequest{Status: "dropped"}))
	withParams(c, "id", "e-1")

	NewEnrollmentHandler(svc).UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e-1", svc.id)
	assert.Equal(t, "dropped", svc.status.Status)
}

func TestEnrollmentHandlerDelete(t *testing.T) {
	svc := &fakeEnrollmentService{}
	c, _ := newGinContext(http.MethodDelete, "/enrollments/e-1", nil)
	withParams(c, "id", "e-1")

	NewEnrollmentHandler(svc).Delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "e-1", svc.id)
}

func TestCertificateHandlerIssueRequiresPrincipal(t *testing.T) {
	svc := &fakeCertificateService{}
	c, w := newGinContext(http.MethodPost, "/certificates", mustJSON(t, dto.CertificateRequest{EnrollmentID: "e-1"}))

	NewCertificateHandler(svc, &fakeArchive{}).Issue(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/certificates", mustJSON(t, dto.CertificateRequest{EnrollmentID: "e-1"}))
	withPrincipal(c, &models.Principal{UserID: "u-1"})

	NewCertificateHandler(svc, &fakeArchive{}).Issue(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u-1", svc.actor.UserID)
}

func TestCertificateHandlerRevokeAlreadyRevoked(t *testing.T) {
	svc := &fakeCertificateService{err: appErrors.Clone(appErrors.ErrPreconditionFailed, "certificate is already revoked")}
	c, w := newGinContext(http.MethodPost, "/certificates/cert-1/revoke", mustJSON(t, dto.ReasonRequest{Reason: "issued in error"}))
	withParams(c, "id", "cert-1")

	NewCertificateHandler(svc, &fakeArchive{}).Revoke(c)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "cert-1", svc.id)
	assert.Equal(t, "issued in error", svc.reason.Reason)
}

func TestCertificateHandlerListRejectsHugePage(t *testing.T) {
	svc := &fakeCertificateService{}
	c, w := newGinContext(http.MethodGet, "/certificates?page=4611686018427387904&limit=4", nil)

	NewCertificateHandler(svc, &fakeArchive{}).List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "page must be between 1 and 100000", decodeEnvelope(t, w).Error["message"])
}

func TestCertificateHandlerDocumentIsInline(t *testing.T) {
	svc := &fakeCertificateService{}
	c, w := newGinContext(http.MethodGet, "/certificates/cert-1/document?format=html", nil)
	withParams(c, "id", "cert-1")

	NewCertificateHandler(svc, &fakeArchive{}).Document(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `inline; filename="Certificate-CERT-1.html"`, w.Header().Get("Content-Disposition"))
}

func TestCertificateHandlerArchiveMissing(t *testing.T) {
	archive := &fakeArchive{err: appErrors.Clone(appErrors.ErrNotFound, "certificate archive not found")}
	c, w := newGinContext(http.MethodGet, "/certificates/cert-1/archive", nil)
	withParams(c, "id", "cert-1")

	NewCertificateHandler(&fakeCertificateService{}, archive).Archive(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
