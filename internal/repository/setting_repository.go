package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const settingUpsert = `INSERT INTO settings (id, branch_id, setting_key, setting_value, created_at, updated_at)
VALUES (:id, :branch_id, :setting_key, :setting_value, :created_at, :updated_at)
ON CONFLICT (branch_id, setting_key)
DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = EXCLUDED.updated_at
RETURNING id, branch_id, setting_key, setting_value, created_at, updated_at`

// SettingRepository persists keyed JSON settings. A nil branch means a global setting.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository constructs the repository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// List returns the settings of one scope ordered by key.
func (r *SettingRepository) List(ctx context.Context, branchID *string) ([]models.Setting, error) {
	const query = `SELECT id, branch_id, setting_key, setting_value, created_at, updated_at
FROM settings WHERE branch_id IS NOT DISTINCT FROM $1 ORDER BY setting_key ASC`
	var settings []models.Setting
	if err := r.db.SelectContext(ctx, &settings, query, branchID); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// Get fetches a single setting by scope and key.
func (r *SettingRepository) Get(ctx context.Context, branchID *string, key string) (*models.Setting, error) {
	const query = `SELECT id, branch_id, setting_key, setting_value, created_at, updated_at
FROM settings WHERE branch_id IS NOT DISTINCT FROM $1 AND setting_key = $2`
	var setting models.Setting
	if err := r.db.GetContext(ctx, &setting, query, branchID, key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes a setting in a single statement and returns the stored row.
func (r *SettingRepository) Upsert(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	prepareSetting(setting)
	rows, err := r.db.NamedQueryContext(ctx, settingUpsert, setting)
	if err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	defer rows.Close()
	var stored models.Setting
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("upsert setting: %w", err)
		}
		return nil, fmt.Errorf("upsert setting: no row returned")
	}
	if err := rows.StructScan(&stored); err != nil {
		return nil, fmt.Errorf("scan setting: %w", err)
	}
	return &stored, nil
}

// BulkUpsert writes several settings within a transaction.
func (r *SettingRepository) BulkUpsert(ctx context.Context, settings []models.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk settings tx: %w", err)
	}
	for i := range settings {
		prepareSetting(&settings[i])
		if _, err := tx.NamedExecContext(ctx, settingUpsert, settings[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert settings: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk settings tx: %w", err)
	}
	return nil
}

// Delete removes a setting.
func (r *SettingRepository) Delete(ctx context.Context, branchID *string, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE branch_id IS NOT DISTINCT FROM $1 AND setting_key = $2`, branchID, key)
	return expectAffected(res, err, "delete setting")
}

func prepareSetting(s *models.Setting) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
