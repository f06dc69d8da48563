package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const receiptDetailSelect = `SELECT r.id, r.receipt_number, r.receipt_type, r.student_id, r.enrollment_id, r.branch_id, r.amount,
        r.payment_mode, r.payment_date, r.description, r.remarks, r.status, r.void_reason, r.generated_by, r.document_path,
        r.created_at, r.updated_at,
        s.full_name AS student_name, s.admission_number, s.phone AS student_phone,
        c.name AS course_name, b.name AS batch_name
        FROM receipts r
        JOIN students s ON s.id = r.student_id
        LEFT JOIN enrollments e ON e.id = r.enrollment_id
        LEFT JOIN batches b ON b.id = e.batch_id
        LEFT JOIN courses c ON c.id = b.course_id`

// ReceiptRepository persists fee receipts.
type ReceiptRepository struct {
	db *sqlx.DB
}

// NewReceiptRepository constructs a ReceiptRepository.
func NewReceiptRepository(db *sqlx.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// List returns receipts newest first, optionally for one student.
func (r *ReceiptRepository) List(ctx context.Context, studentID string) ([]models.ReceiptDetail, error) {
	query := receiptDetailSelect
	var args []interface{}
	if studentID != "" {
		query += " WHERE r.student_id = $1"
		args = append(args, studentID)
	}
	query += " ORDER BY r.payment_date DESC, r.created_at DESC"

	var receipts []models.ReceiptDetail
	if err := r.db.SelectContext(ctx, &receipts, query, args...); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

// FindDetailByID fetches a receipt with the student and course it was paid for.
func (r *ReceiptRepository) FindDetailByID(ctx context.Context, id string) (*models.ReceiptDetail, error) {
	var receipt models.ReceiptDetail
	if err := r.db.GetContext(ctx, &receipt, receiptDetailSelect+" WHERE r.id = $1", id); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// NextReceiptNumber asks the database generator for the next receipt number.
func (r *ReceiptRepository) NextReceiptNumber(ctx context.Context) (string, error) {
	var number string
	if err := r.db.GetContext(ctx, &number, `SELECT generate_receipt_number()`); err != nil {
		return "", fmt.Errorf("generate receipt number: %w", err)
	}
	return number, nil
}

// Create inserts a receipt using the number already assigned to it.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	receipt.CreatedAt, receipt.UpdatedAt = now, now
	const query = `INSERT INTO receipts (id, receipt_number, receipt_type, student_id, enrollment_id, branch_id, amount, payment_mode,
        payment_date, description, remarks, status, generated_by, created_at, updated_at)
        VALUES (:id, :receipt_number, :receipt_type, :student_id, :enrollment_id, :branch_id, :amount, :payment_mode,
        :payment_date, :description, :remarks, :status, :generated_by, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, receipt)
	return wrap(err, "create receipt")
}

// UpdateStatus voids or refunds a receipt. reason is stored as the void reason.
func (r *ReceiptRepository) UpdateStatus(ctx context.Context, id string, status models.ReceiptStatus, reason *string) error {
	const query = `UPDATE receipts SET status = $2, void_reason = COALESCE($3, void_reason), updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, reason, time.Now().UTC())
	return expectAffected(res, err, "update receipt status")
}

// SetDocumentPath records where the archived PDF lives.
func (r *ReceiptRepository) SetDocumentPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE receipts SET document_path = $2, updated_at = $3 WHERE id = $1`, id, path, time.Now().UTC())
	return expectAffected(res, err, "set receipt document path")
}

// Delete removes a receipt.
func (r *ReceiptRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	return expectAffected(res, err, "delete receipt")
}
