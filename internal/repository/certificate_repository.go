package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const certificateDetailSelect = `SELECT ct.id, ct.certificate_number, ct.student_id, ct.enrollment_id, ct.branch_id, ct.course_name,
        ct.batch_name, ct.grade, ct.attendance_percentage, ct.completion_date, ct.issue_date, ct.issued_by, ct.status,
        ct.revoke_reason, ct.template_id, ct.document_path, ct.created_at, ct.updated_at,
        s.full_name AS student_name, s.admission_number
        FROM certificates ct
        JOIN students s ON s.id = ct.student_id`

// CertificateRepository persists completion certificates.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs a CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// List returns certificates newest first.
func (r *CertificateRepository) List(ctx context.Context) ([]models.CertificateDetail, error) {
	var certificates []models.CertificateDetail
	if err := r.db.SelectContext(ctx, &certificates, certificateDetailSelect+" ORDER BY ct.issue_date DESC, ct.created_at DESC"); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certificates, nil
}

// FindDetailByID fetches a certificate with its student.
func (r *CertificateRepository) FindDetailByID(ctx context.Context, id string) (*models.CertificateDetail, error) {
	var certificate models.CertificateDetail
	if err := r.db.GetContext(ctx, &certificate, certificateDetailSelect+" WHERE ct.id = $1", id); err != nil {
		return nil, err
	}
	return &certificate, nil
}

// NextCertificateNumber asks the database generator for the next certificate number.
func (r *CertificateRepository) NextCertificateNumber(ctx context.Context) (string, error) {
	var number string
	if err := r.db.GetContext(ctx, &number, `SELECT generate_certificate_number()`); err != nil {
		return "", fmt.Errorf("generate certificate number: %w", err)
	}
	return number, nil
}

// Create inserts a certificate using the number already assigned to it.
func (r *CertificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	if certificate.ID == "" {
		certificate.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	certificate.CreatedAt, certificate.UpdatedAt = now, now
	const query = `INSERT INTO certificates (id, certificate_number, student_id, enrollment_id, branch_id, course_name, batch_name, grade,
        attendance_percentage, completion_date, issue_date, issued_by, status, template_id, created_at, updated_at)
        VALUES (:id, :certificate_number, :student_id, :enrollment_id, :branch_id, :course_name, :batch_name, :grade,
        :attendance_percentage, :completion_date, :issue_date, :issued_by, :status, :template_id, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, certificate)
	return wrap(err, "create certificate")
}

// Revoke marks a certificate revoked with a reason.
func (r *CertificateRepository) Revoke(ctx context.Context, id, reason string) error {
	const query = `UPDATE certificates SET status = $2, revoke_reason = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.CertificateStatusRevoked, reason, time.Now().UTC())
	return expectAffected(res, err, "revoke certificate")
}

// SetDocumentPath records where the archived PDF lives.
func (r *CertificateRepository) SetDocumentPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE certificates SET document_path = $2, updated_at = $3 WHERE id = $1`, id, path, time.Now().UTC())
	return expectAffected(res, err, "set certificate document path")
}

// Delete removes a certificate.
func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	return expectAffected(res, err, "delete certificate")
}
