package models

import "time"

// Course is a program offered by the institute.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Code          string    `db:"code" json:"code"`
	Description   *string   `db:"description" json:"description,omitempty"`
	DurationHours int       `db:"duration_hours" json:"duration_hours"`
	DurationDays  int       `db:"duration_days" json:"duration_days"`
	FeeAmount     *float64  `db:"fee_amount" json:"fee_amount,omitempty"`
	Syllabus      *string   `db:"syllabus" json:"syllabus,omitempty"`
	BranchID      *string   `db:"branch_id" json:"branch_id,omitempty"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
