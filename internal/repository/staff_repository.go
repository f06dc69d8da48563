package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const staffSelect = `SELECT sp.id, sp.user_id, sp.employee_id, sp.full_name, sp.email, sp.phone, sp.designation, sp.branch_id,
        sp.is_active, sp.created_at, sp.updated_at, br.name AS branch_name,
        COALESCE(ARRAY(SELECT ur.role::text FROM user_roles ur WHERE ur.user_id = sp.user_id ORDER BY ur.role), '{}') AS roles
        FROM staff_profiles sp
        LEFT JOIN branches br ON br.id = sp.branch_id`

const profileColumns = `id, user_id, employee_id, full_name, email, phone, designation, branch_id, is_active, created_at, updated_at`

type staffRow struct {
	models.StaffProfile
	BranchName *string        `db:"branch_name"`
	Roles      pq.StringArray `db:"roles"`
}

func (r staffRow) toMember() models.StaffMember {
	roles := make([]models.Role, 0, len(r.Roles))
	for _, role := range r.Roles {
		roles = append(roles, models.Role(role))
	}
	return models.StaffMember{StaffProfile: r.StaffProfile, BranchName: r.BranchName, Roles: roles}
}

// StaffRepository reads and updates staff profiles.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// List returns every staff member with branch name and roles.
func (r *StaffRepository) List(ctx context.Context) ([]models.StaffMember, error) {
	var rows []staffRow
	if err := r.db.SelectContext(ctx, &rows, staffSelect+" ORDER BY sp.full_name"); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	members := make([]models.StaffMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toMember())
	}
	return members, nil
}

// FindByID returns a staff member by profile id.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	var row staffRow
	if err := r.db.GetContext(ctx, &row, staffSelect+" WHERE sp.id = $1", id); err != nil {
		return nil, err
	}
	member := row.toMember()
	return &member, nil
}

// FindProfileByUserID returns the staff profile linked to a user.
func (r *StaffRepository) FindProfileByUserID(ctx context.Context, userID string) (*models.StaffProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_profiles WHERE user_id = $1 LIMIT 1`, profileColumns)
	var profile models.StaffProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update modifies the editable fields of a profile.
func (r *StaffRepository) Update(ctx context.Context, profile *models.StaffProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff_profiles SET full_name = :full_name, phone = :phone, designation = :designation, branch_id = :branch_id,
        is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, profile)
	return expectAffected(res, err, "update staff profile")
}

// UpdateOwnProfile changes the self-service fields of the caller's profile.
func (r *StaffRepository) UpdateOwnProfile(ctx context.Context, userID, fullName string, phone, designation *string) error {
	const query = `UPDATE staff_profiles SET full_name = $2, phone = $3, designation = $4, updated_at = $5 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, fullName, phone, designation, time.Now().UTC())
	return expectAffected(res, err, "update own profile")
}

// ListTrainers returns active staff holding the trainer role.
func (r *StaffRepository) ListTrainers(ctx context.Context) ([]models.StaffProfile, error) {
	query := `SELECT sp.id, sp.user_id, sp.employee_id, sp.full_name, sp.email, sp.phone, sp.designation, sp.branch_id, sp.is_active,
        sp.created_at, sp.updated_at
        FROM staff_profiles sp
        JOIN user_roles ur ON ur.user_id = sp.user_id AND ur.role = 'trainer'
        WHERE sp.is_active ORDER BY sp.full_name`
	var trainers []models.StaffProfile
	if err := r.db.SelectContext(ctx, &trainers, query); err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	return trainers, nil
}
