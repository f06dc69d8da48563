package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.batch_id, e.enrollment_date, e.status, e.fee_paid, e.fee_pending,
        e.notes, e.enrolled_by, e.created_at, e.updated_at,
        s.full_name AS student_name, s.admission_number, s.branch_id AS student_branch_id,
        b.name AS batch_name, c.id AS course_id, c.name AS course_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN batches b ON b.id = e.batch_id
        JOIN courses c ON c.id = b.course_id`

// EnrollmentFilter narrows enrollment listings by foreign keys and status.
type EnrollmentFilter struct {
	StudentID string
	BatchID   string
	Status    models.EnrollmentStatus
}

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments matching the filter, newest first.
func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)))
	}
	if filter.BatchID != "" {
		args = append(args, filter.BatchID)
		conditions = append(conditions, fmt.Sprintf("e.batch_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)))
	}

	query := enrollmentDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.enrollment_date DESC, e.created_at DESC"

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindDetailByID returns an enrollment with student, batch and course names.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, enrollmentDetailSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CountActiveInBatch counts active enrollments of a batch.
func (r *EnrollmentRepository) CountActiveInBatch(ctx context.Context, batchID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM enrollments WHERE batch_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, batchID, models.EnrollmentStatusActive); err != nil {
		return 0, fmt.Errorf("count batch enrollments: %w", err)
	}
	return count, nil
}

// Create inserts an enrollment. A second enrollment of the same student in the
// same batch fails with database.ErrUniqueViolation.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.CreatedAt, enrollment.UpdatedAt = now, now
	const query = `INSERT INTO enrollments (id, student_id, batch_id, enrollment_date, status, fee_paid, fee_pending, notes, enrolled_by, created_at, updated_at)
        VALUES (:id, :student_id, :batch_id, :enrollment_date, :status, :fee_paid, :fee_pending, :notes, :enrolled_by, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, enrollment)
	return wrap(err, "create enrollment")
}

// Update persists status, fees and notes.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET batch_id = :batch_id, enrollment_date = :enrollment_date, status = :status, fee_paid = :fee_paid,
        fee_pending = :fee_pending, notes = :notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, enrollment)
	return expectAffected(res, err, "update enrollment")
}

// UpdateStatus transitions an enrollment.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC())
	return expectAffected(res, err, "update enrollment status")
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	return expectAffected(res, err, "delete enrollment")
}
