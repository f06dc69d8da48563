package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type fakeReceiptService struct {
	query   dto.ReceiptQuery
	created dto.ReceiptRequest
	actor   *models.Principal
	format  string
	voided  string
}

func (f *fakeReceiptService) List(_ context.Context, q dto.ReceiptQuery) ([]models.ReceiptDetail, *models.Pagination, error) {
	f.query = q
	return []models.ReceiptDetail{}, &models.Pagination{Page: 1}, nil
}

func (f *fakeReceiptService) Get(context.Context, string) (*models.ReceiptDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "receipt not found")
}

func (f *fakeReceiptService) Create(_ context.Context, req dto.ReceiptRequest, actor *models.Principal) (*models.ReceiptDetail, error) {
	f.created = req
	f.actor = actor
	return &models.ReceiptDetail{}, nil
}

func (f *fakeReceiptService) Void(_ context.Context, id string, _ dto.ReasonRequest) (*models.ReceiptDetail, error) {
	f.voided = id
	return &models.ReceiptDetail{}, nil
}

func (f *fakeReceiptService) Refund(context.Context, string, dto.ReasonRequest) (*models.ReceiptDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "receipt is already voided")
}

func (f *fakeReceiptService) Delete(context.Context, string) error { return nil }

func (f *fakeReceiptService) Document(_ context.Context, _ string, rawFormat string) (*document.Document, error) {
	f.format = rawFormat
	switch rawFormat {
	case "html":
		return &document.Document{FileName: "Receipt-RCP-1.html", ContentType: "text/html; charset=utf-8", Body: []byte("<html></html>")}, nil
	case "txt":
		return &document.Document{FileName: "Receipt-RCP-1.txt", ContentType: "text/plain; charset=utf-8", Body: []byte("RECEIPT")}, nil
	default:
		return nil, appErrors.ErrDocumentUnavailable
	}
}

type fakeArchive struct {
	link *models.ArchiveLink
	err  error
}

func (f *fakeArchive) ReceiptLink(context.Context, string) (*models.ArchiveLink, error) {
	return f.link, f.err
}

func (f *fakeArchive) CertificateLink(context.Context, string) (*models.ArchiveLink, error) {
	return f.link, f.err
}

func TestReceiptHandlerListPassesFilters(t *testing.T) {
	svc := &fakeReceiptService{}
	handler := NewReceiptHandler(svc, &fakeArchive{})
	c, w := newGinContext(http.MethodGet, "/receipts?search=%20rcp%20&student_id=s-1&page=2&limit=5", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rcp", svc.query.Search)
	assert.Equal(t, "s-1", svc.query.StudentID)
	assert.Equal(t, 2, svc.query.Page)
	assert.Equal(t, 5, svc.query.PageSize)
}

func TestReceiptHandlerListRejectsBadPage(t *testing.T) {
	handler := NewReceiptHandler(&fakeReceiptService{}, &fakeArchive{})
	c, w := newGinContext(http.MethodGet, "/receipts?page=first", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiptHandlerCreateRecordsCaller(t *testing.T) {
	svc := &fakeReceiptService{}
	handler := NewReceiptHandler(svc, &fakeArchive{})
	c, w := newGinContext(http.MethodPost, "/receipts", mustJSON(t, map[string]interface{}{
		"student_id":   "s-1",
		"amount":       1500.5,
		"payment_mode": "upi",
	}))
	withPrincipal(c, &models.Principal{UserID: "user-1", ProfileID: "profile-1"})

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1500.5, svc.created.Amount)
	assert.Equal(t, "profile-1", svc.actor.ProfileID)
}

func TestReceiptHandlerVoidUsesPathID(t *testing.T) {
	svc := &fakeReceiptService{}
	handler := NewReceiptHandler(svc, &fakeArchive{})
	c, w := newGinContext(http.MethodPost, "/receipts/r-1/void", mustJSON(t, dto.ReasonRequest{Reason: "duplicate entry"}))
	withParams(c, "id", "r-1")

	handler.Void(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r-1", svc.voided)
}

func TestReceiptHandlerRefundPrecondition(t *testing.T) {
	handler := NewReceiptHandler(&fakeReceiptService{}, &fakeArchive{})
	c, w := newGinContext(http.MethodPost, "/receipts/r-1/refund", mustJSON(t, dto.ReasonRequest{Reason: "overpaid"}))
	withParams(c, "id", "r-1")

	handler.Refund(c)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "receipt is already voided", decodeEnvelope(t, w).Error["message"])
}

func TestReceiptHandlerDocumentHTMLIsInline(t *testing.T) {
	handler := NewReceiptHandler(&fakeReceiptService{}, &fakeArchive{})
	c, w := newGinContext(http.MethodGet, "/receipts/r-1/document?format=html", nil)
	withParams(c, "id", "r-1")

	handler.Document(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `inline; filename="Receipt-RCP-1.html"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<html></html>", w.Body.String())
}

func TestReceiptHandlerDocumentTextIsAttachment(t *testing.T) {
	handler := NewReceiptHandler(&fakeReceiptService{}, &fakeArchive{})
	c, w := newGinContext(http.MethodGet, "/receipts/r-1/document?format=txt", nil)

	handler.Document(c)

	assert.Equal(t, `attachment; filename="Receipt-RCP-1.txt"`, w.Header().Get("Content-Disposition"))
}

func TestReceiptHandlerDocumentUnavailable(t *testing.T) {
	svc := &fakeReceiptService{}
	handler := NewReceiptHandler(svc, &fakeArchive{})
	c, w := newGinContext(http.MethodGet, "/receipts/r-1/document", nil)

	handler.Document(c)

	assert.Equal(t, "", svc.format)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DOCUMENT_UNAVAILABLE", decodeEnvelope(t, w).Error["code"])
}

func TestReceiptHandlerArchiveLink(t *testing.T) {
	expires := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	archive := &fakeArchive{link: &models.ArchiveLink{Kind: models.ArchiveKindReceipt, ID: "r-1", URL: "/api/v1/files/token", ExpiresAt: &expires}}
	handler := NewReceiptHandler(&fakeReceiptService{}, archive)
	c, w := newGinContext(http.MethodGet, "/receipts/r-1/archive", nil)
	withParams(c, "id", "r-1")

	handler.Archive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var link models.ArchiveLink
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &link))
	assert.Equal(t, "/api/v1/files/token", link.URL)
	assert.False(t, link.Remote)
}

func TestReceiptHandlerArchiveNotReady(t *testing.T) {
	archive := &fakeArchive{err: appErrors.Clone(appErrors.ErrNotFound, "document has not been archived yet")}
	handler := NewReceiptHandler(&fakeReceiptService{}, archive)
	c, w := newGinContext(http.MethodGet, "/receipts/r-1/archive", nil)

	handler.Archive(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
