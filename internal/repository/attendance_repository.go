package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

// AttendanceRepository persists per-session attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Roster lists the active enrollments of a batch joined with their mark for date.
func (r *AttendanceRepository) Roster(ctx context.Context, batchID string, date models.Date) ([]models.AttendanceRosterEntry, error) {
	const query = `SELECT e.id AS enrollment_id, s.id AS student_id, s.full_name AS student_name, s.admission_number,
        a.status, a.remarks
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        LEFT JOIN attendance a ON a.enrollment_id = e.id AND a.batch_id = e.batch_id AND a.session_date = $2
        WHERE e.batch_id = $1 AND e.status = 'active'
        ORDER BY s.full_name`
	var roster []models.AttendanceRosterEntry
	if err := r.db.SelectContext(ctx, &roster, query, batchID, date); err != nil {
		return nil, fmt.Errorf("attendance roster: %w", err)
	}
	return roster, nil
}

// ListSession returns the stored marks of a batch for one date.
func (r *AttendanceRepository) ListSession(ctx context.Context, batchID string, date models.Date) ([]models.Attendance, error) {
	const query = `SELECT id, batch_id, enrollment_id, session_date, session_number, status, marked_by, remarks, created_at, updated_at
        FROM attendance WHERE batch_id = $1 AND session_date = $2 ORDER BY created_at`
	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, batchID, date); err != nil {
		return nil, fmt.Errorf("list attendance session: %w", err)
	}
	return rows, nil
}

// ReplaceSession makes the stored marks of (batchID, date) equal to records in one
// transaction: marks of enrollments missing from records are deleted, the rest are
// upserted on (batch_id, enrollment_id, session_date).
func (r *AttendanceRepository) ReplaceSession(ctx context.Context, batchID string, date models.Date, records []models.Attendance) ([]models.Attendance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin attendance replace: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	keep := make([]string, 0, len(records))
	for _, rec := range records {
		keep = append(keep, rec.EnrollmentID)
	}
	const prune = `DELETE FROM attendance WHERE batch_id = $1 AND session_date = $2 AND NOT (enrollment_id = ANY($3))`
	if _, err := tx.ExecContext(ctx, prune, batchID, date, pq.Array(keep)); err != nil {
		return nil, fmt.Errorf("prune attendance: %w", err)
	}

	const upsert = `INSERT INTO attendance (id, batch_id, enrollment_id, session_date, session_number, status, marked_by, remarks, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (batch_id, enrollment_id, session_date)
DO UPDATE SET status = EXCLUDED.status, session_number = EXCLUDED.session_number, marked_by = EXCLUDED.marked_by,
    remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at
RETURNING id, batch_id, enrollment_id, session_date, session_number, status, marked_by, remarks, created_at, updated_at`

	now := time.Now().UTC()
	stored := make([]models.Attendance, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		var row models.Attendance
		if err := tx.GetContext(ctx, &row, upsert, rec.ID, batchID, rec.EnrollmentID, date, rec.SessionNumber, rec.Status,
			rec.MarkedBy, rec.Remarks, now, now); err != nil {
			return nil, fmt.Errorf("upsert attendance: %w", err)
		}
		stored = append(stored, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attendance replace: %w", err)
	}
	commit = true
	return stored, nil
}

// Summary aggregates one enrollment's marks.
func (r *AttendanceRepository) Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error) {
	const query = `SELECT $1::uuid::text AS enrollment_id, COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = 'present') AS present,
        COUNT(*) FILTER (WHERE status = 'absent') AS absent,
        COUNT(*) FILTER (WHERE status = 'late') AS late,
        COUNT(*) FILTER (WHERE status = 'excused') AS excused
        FROM attendance WHERE enrollment_id = $1`
	var summary models.AttendanceSummary
	if err := r.db.GetContext(ctx, &summary, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	summary.ComputePercentage()
	return &summary, nil
}
