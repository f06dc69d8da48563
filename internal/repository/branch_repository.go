package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const branchColumns = `id, name, code, address, phone, email, is_active, created_at, updated_at`

// BranchRepository manages persistence for branches.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository constructs a BranchRepository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// List returns every branch ordered by name.
func (r *BranchRepository) List(ctx context.Context) ([]models.Branch, error) {
	query := fmt.Sprintf(`SELECT %s FROM branches ORDER BY name`, branchColumns)
	var branches []models.Branch
	if err := r.db.SelectContext(ctx, &branches, query); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// FindByID fetches a branch.
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	query := fmt.Sprintf(`SELECT %s FROM branches WHERE id = $1`, branchColumns)
	var branch models.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		return nil, err
	}
	return &branch, nil
}

// Create inserts a branch.
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	branch.CreatedAt, branch.UpdatedAt = now, now
	const query = `INSERT INTO branches (id, name, code, address, phone, email, is_active, created_at, updated_at)
        VALUES (:id, :name, :code, :address, :phone, :email, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, branch)
	return wrap(err, "create branch")
}

// Update modifies a branch.
func (r *BranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	branch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE branches SET name = :name, code = :code, address = :address, phone = :phone, email = :email,
        is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, branch)
	return expectAffected(res, err, "update branch")
}

// Delete removes a branch.
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	return expectAffected(res, err, "delete branch")
}
