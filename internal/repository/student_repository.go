package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

const studentColumns = `id, admission_number, full_name, email, phone, alternate_phone, address, date_of_birth, gender,
        guardian_name, guardian_phone, qualification, notes, photo_url, branch_id, is_active, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students, newest first.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY created_at DESC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByAdmissionNumber checks whether an admission number is taken.
func (r *StudentRepository) ExistsByAdmissionNumber(ctx context.Context, number string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM students WHERE admission_number = $1 LIMIT 1`, number)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check admission number: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, admission_number, full_name, email, phone, alternate_phone, address, date_of_birth, gender,
        guardian_name, guardian_phone, qualification, notes, photo_url, branch_id, is_active, created_at, updated_at)
        VALUES (:id, :admission_number, :full_name, :email, :phone, :alternate_phone, :address, :date_of_birth, :gender,
        :guardian_name, :guardian_phone, :qualification, :notes, :photo_url, :branch_id, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, student)
	return wrap(err, "create student")
}

// Update modifies an existing student. The admission number is never rewritten.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, email = :email, phone = :phone, alternate_phone = :alternate_phone,
        address = :address, date_of_birth = :date_of_birth, gender = :gender, guardian_name = :guardian_name,
        guardian_phone = :guardian_phone, qualification = :qualification, notes = :notes, photo_url = :photo_url,
        branch_id = :branch_id, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	return expectAffected(res, err, "update student")
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return expectAffected(res, err, "delete student")
}
