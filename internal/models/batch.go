package models

import "time"

// Batch is a scheduled cohort of a course.
type Batch struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CourseID  string    `db:"course_id" json:"course_id"`
	TrainerID *string   `db:"trainer_id" json:"trainer_id,omitempty"`
	BranchID  *string   `db:"branch_id" json:"branch_id,omitempty"`
	StartDate Date      `db:"start_date" json:"start_date"`
	EndDate   *Date     `db:"end_date" json:"end_date,omitempty"`
	Schedule  *string   `db:"schedule" json:"schedule,omitempty"`
	Timings   *string   `db:"timings" json:"timings,omitempty"`
	Capacity  int       `db:"capacity" json:"capacity"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BatchDetail joins the course, trainer and seat usage for display.
type BatchDetail struct {
	Batch
	CourseName    string  `db:"course_name" json:"course_name"`
	TrainerName   *string `db:"trainer_name" json:"trainer_name,omitempty"`
	EnrolledCount int     `db:"enrolled_count" json:"enrolled_count"`
}
