package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

// DashboardRepository reads headline counts.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats returns every dashboard count in a single round trip.
func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students WHERE is_active) AS active_students,
        (SELECT COUNT(*) FROM courses WHERE is_active) AS active_courses,
        (SELECT COUNT(*) FROM batches WHERE is_active) AS active_batches,
        (SELECT COUNT(*) FROM enrollments WHERE status = 'active') AS active_enrollments,
        (SELECT COUNT(*) FROM receipts WHERE status = 'valid') AS valid_receipts,
        (SELECT COUNT(*) FROM certificates WHERE status = 'issued') AS issued_certificates`
	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
