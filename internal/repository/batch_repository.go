package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const batchDetailSelect = `SELECT b.id, b.name, b.code, b.course_id, b.trainer_id, b.branch_id, b.start_date, b.end_date,
        b.schedule, b.timings, b.capacity, b.is_active, b.created_at, b.updated_at,
        c.name AS course_name, sp.full_name AS trainer_name,
        (SELECT COUNT(*) FROM enrollments e WHERE e.batch_id = b.id AND e.status = 'active') AS enrolled_count
        FROM batches b
        JOIN courses c ON c.id = b.course_id
        LEFT JOIN staff_profiles sp ON sp.id = b.trainer_id`

// BatchRepository manages persistence for batches.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// List returns all batches with course and trainer names.
func (r *BatchRepository) List(ctx context.Context) ([]models.BatchDetail, error) {
	var batches []models.BatchDetail
	if err := r.db.SelectContext(ctx, &batches, batchDetailSelect+` ORDER BY b.start_date DESC, b.name`); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// FindByID fetches a batch with its joined names.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	var batch models.BatchDetail
	if err := r.db.GetContext(ctx, &batch, batchDetailSelect+` WHERE b.id = $1`, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create inserts a batch.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	batch.CreatedAt, batch.UpdatedAt = now, now
	const query = `INSERT INTO batches (id, name, code, course_id, trainer_id, branch_id, start_date, end_date, schedule, timings, capacity, is_active, created_at, updated_at)
        VALUES (:id, :name, :code, :course_id, :trainer_id, :branch_id, :start_date, :end_date, :schedule, :timings, :capacity, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, batch)
	return wrap(err, "create batch")
}

// Update modifies a batch.
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	batch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE batches SET name = :name, code = :code, course_id = :course_id, trainer_id = :trainer_id, branch_id = :branch_id,
        start_date = :start_date, end_date = :end_date, schedule = :schedule, timings = :timings, capacity = :capacity,
        is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, batch)
	return expectAffected(res, err, "update batch")
}

// Delete removes a batch.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	return expectAffected(res, err, "delete batch")
}
