package models

import "time"

// Student represents a learner registered with the institute.
type Student struct {
	ID              string    `db:"id" json:"id"`
	AdmissionNumber string    `db:"admission_number" json:"admission_number"`
	FullName        string    `db:"full_name" json:"full_name"`
	Email           *string   `db:"email" json:"email,omitempty"`
	Phone           string    `db:"phone" json:"phone"`
	AlternatePhone  *string   `db:"alternate_phone" json:"alternate_phone,omitempty"`
	Address         *string   `db:"address" json:"address,omitempty"`
	DateOfBirth     *Date     `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender          *string   `db:"gender" json:"gender,omitempty"`
	GuardianName    *string   `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone   *string   `db:"guardian_phone" json:"guardian_phone,omitempty"`
	Qualification   *string   `db:"qualification" json:"qualification,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	PhotoURL        *string   `db:"photo_url" json:"photo_url,omitempty"`
	BranchID        *string   `db:"branch_id" json:"branch_id,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
