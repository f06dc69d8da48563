package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
)

type fakeCertificateRepo struct {
	certificates map[string]*models.CertificateDetail
	next         string
	created      *models.Certificate
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{certificates: map[string]*models.CertificateDetail{}, next: "CERT-2026-00003"}
}

func (r *fakeCertificateRepo) List(ctx context.Context) ([]models.CertificateDetail, error) {
	out := make([]models.CertificateDetail, 0, len(r.certificates))
	for _, c := range r.certificates {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCertificateRepo) FindDetailByID(ctx context.Context, id string) (*models.CertificateDetail, error) {
	c, ok := r.certificates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (r *fakeCertificateRepo) NextCertificateNumber(ctx context.Context) (string, error) {
	return r.next, nil
}

func (r *fakeCertificateRepo) Create(ctx context.Context, certificate *models.Certificate) error {
	certificate.ID = "certificate-1"
	r.created = certificate
	r.certificates[certificate.ID] = &models.CertificateDetail{Certificate: *certificate, StudentName: "Asha Verma"}
	return nil
}

func (r *fakeCertificateRepo) Revoke(ctx context.Context, id, reason string) error {
	c, ok := r.certificates[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Status = models.CertificateStatusRevoked
	c.RevokeReason = &reason
	return nil
}

func (r *fakeCertificateRepo) Delete(ctx context.Context, id string) error {
	delete(r.certificates, id)
	return nil
}

type stubSummaries map[string]*models.AttendanceSummary

func (s stubSummaries) Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error) {
	if summary, ok := s[enrollmentID]; ok {
		return summary, nil
	}
	return &models.AttendanceSummary{EnrollmentID: enrollmentID}, nil
}

func newTestCertificateService(t *testing.T, repo *fakeCertificateRepo, archiver documentArchiver) *CertificateService {
	enrollments := stubEnrollments{
		testEnrollmentID: {
			Enrollment:      models.Enrollment{ID: testEnrollmentID, StudentID: testStudentID},
			StudentBranchID: strPtr(testBranchID),
			BatchName:       "FSWD Morning",
			CourseName:      "Full Stack Web Development",
		},
		testEnrollment2: {
			Enrollment: models.Enrollment{ID: testEnrollment2, StudentID: testOtherStudent},
			BatchName:  "DM Evening",
			CourseName: "Digital Marketing",
		},
	}
	attendance := stubSummaries{
		testEnrollmentID: {EnrollmentID: testEnrollmentID, Total: 40, Present: 36, Percentage: 90},
	}
	svc := NewCertificateService(repo, enrollments, attendance, testRenderer(t), archiver, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCertificateServiceIssue(t *testing.T) {
	repo := newFakeCertificateRepo()
	archiver := &recordingArchiver{}
	svc := newTestCertificateService(t, repo, archiver)

	certificate, err := svc.Issue(context.Background(), dto.CertificateRequest{EnrollmentID: testEnrollmentID, Grade: strPtr("A")}, &models.Principal{ProfileID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, "CERT-2026-00003", certificate.CertificateNumber)
	assert.Equal(t, "Full Stack Web Development", certificate.CourseName)
	assert.Equal(t, "FSWD Morning", certificate.BatchName)
	assert.Equal(t, "2026-03-14", certificate.IssueDate.String())
	assert.Equal(t, models.CertificateStatusIssued, certificate.Status)
	require.NotNil(t, certificate.AttendancePercentage)
	assert.Equal(t, 90.0, *certificate.AttendancePercentage)
	require.NotNil(t, repo.created.BranchID)
	assert.Equal(t, testBranchID, *repo.created.BranchID)
	require.NotNil(t, repo.created.IssuedBy)
	assert.Equal(t, "admin-1", *repo.created.IssuedBy)
	assert.Equal(t, []string{"certificate-1"}, archiver.certificates)
}

func TestCertificateServiceIssueAttendance(t *testing.T) {
	repo := newFakeCertificateRepo()
	svc := newTestCertificateService(t, repo, nil)

	explicit := 75.5
	_, err := svc.Issue(context.Background(), dto.CertificateRequest{EnrollmentID: testEnrollmentID, AttendancePercentage: &explicit}, nil)
	require.NoError(t, err)
	assert.Equal(t, 75.5, *repo.created.AttendancePercentage)

	_, err = svc.Issue(context.Background(), dto.CertificateRequest{EnrollmentID: testEnrollment2}, nil)
	require.NoError(t, err)
	assert.Nil(t, repo.created.AttendancePercentage)
}

func TestCertificateServiceIssueUnknownEnrollment(t *testing.T) {
	svc := newTestCertificateService(t, newFakeCertificateRepo(), nil)
	_, err := svc.Issue(context.Background(), dto.CertificateRequest{EnrollmentID: "4d1b7a2c-0000-4000-8000-000000000000"}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrorOf(err).Status)
	assert.Equal(t, "enrollment not found", appErrorOf(err).Message)
}

func TestCertificateServiceRevoke(t *testing.T) {
	repo := newFakeCertificateRepo()
	repo.certificates["c1"] = &models.CertificateDetail{Certificate: models.Certificate{ID: "c1", Status: models.CertificateStatusIssued}}
	svc := newTestCertificateService(t, repo, nil)

	revoked, err := svc.Revoke(context.Background(), "c1", dto.ReasonRequest{Reason: "issued in error"})
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusRevoked, revoked.Status)

	_, err = svc.Revoke(context.Background(), "c1", dto.ReasonRequest{Reason: "again please"})
	require.Error(t, err)
	assert.Equal(t, http.StatusPreconditionFailed, appErrorOf(err).Status)

	_, err = svc.Revoke(context.Background(), "c1", dto.ReasonRequest{Reason: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorOf(err).Status)
}

func TestCertificateServiceDocumentText(t *testing.T) {
	repo := newFakeCertificateRepo()
	svc := newTestCertificateService(t, repo, nil)
	_, err := svc.Issue(context.Background(), dto.CertificateRequest{EnrollmentID: testEnrollmentID}, nil)
	require.NoError(t, err)

	doc, err := svc.Document(context.Background(), "certificate-1", "txt")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "Asha Verma")
	assert.Contains(t, string(doc.Body), "CERT-2026-00003")
}
