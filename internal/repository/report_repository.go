package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const monthlyActivityQuery = `WITH months AS (
    SELECT generate_series($1::date, $2::date, interval '1 month')::date AS month_start
),
enr AS (
    SELECT date_trunc('month', enrollment_date)::date AS m, COUNT(*) AS n
    FROM enrollments WHERE enrollment_date >= $1 AND enrollment_date < $3 GROUP BY 1
),
rcp AS (
    SELECT date_trunc('month', payment_date)::date AS m, COUNT(*) AS n, COALESCE(SUM(amount), 0) AS total
    FROM receipts WHERE status = 'valid' AND payment_date >= $1 AND payment_date < $3 GROUP BY 1
),
crt AS (
    SELECT date_trunc('month', issue_date)::date AS m, COUNT(*) AS n
    FROM certificates WHERE status = 'issued' AND issue_date >= $1 AND issue_date < $3 GROUP BY 1
),
att AS (
    SELECT date_trunc('month', session_date)::date AS m,
        COUNT(*) FILTER (WHERE status IN ('present', 'late'))::float8 * 100 / NULLIF(COUNT(*), 0) AS rate
    FROM attendance WHERE session_date >= $1 AND session_date < $3 GROUP BY 1
)
SELECT mo.month_start,
    COALESCE(enr.n, 0) AS enrollments,
    COALESCE(rcp.n, 0) AS receipts,
    COALESCE(rcp.total, 0)::float8 AS revenue,
    COALESCE(crt.n, 0) AS certificates,
    COALESCE(att.rate, 0) AS attendance_rate
FROM months mo
LEFT JOIN enr ON enr.m = mo.month_start
LEFT JOIN rcp ON rcp.m = mo.month_start
LEFT JOIN crt ON crt.m = mo.month_start
LEFT JOIN att ON att.m = mo.month_start
ORDER BY mo.month_start`

// ReportRepository runs reporting aggregations.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// MonthlyActivity aggregates enrollments, receipts, certificates and attendance per
// calendar month for the months starting at from through lastMonth inclusive.
func (r *ReportRepository) MonthlyActivity(ctx context.Context, from, lastMonth time.Time) ([]models.ReportMonth, error) {
	until := lastMonth.AddDate(0, 1, 0)
	var rows []models.ReportMonth
	if err := r.db.SelectContext(ctx, &rows, monthlyActivityQuery,
		from.Format(models.DateLayout), lastMonth.Format(models.DateLayout), until.Format(models.DateLayout)); err != nil {
		return nil, fmt.Errorf("monthly activity: %w", err)
	}
	return rows, nil
}
