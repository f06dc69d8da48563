package dto

import "github.com/noah-isme/institute-erp-api/internal/models"

// BranchRequest creates or replaces a branch.
type BranchRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Code     string  `json:"code" validate:"required,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// CourseRequest creates or replaces a course.
type CourseRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=150"`
	Code          string   `json:"code" validate:"required,max=20"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	DurationHours int      `json:"duration_hours" validate:"min=0"`
	DurationDays  int      `json:"duration_days" validate:"min=0"`
	FeeAmount     *float64 `json:"fee_amount" validate:"omitempty,gte=0"`
	Syllabus      *string  `json:"syllabus"`
	BranchID      *string  `json:"branch_id" validate:"omitempty,uuid"`
	IsActive      *bool    `json:"is_active"`
}

// BatchRequest creates or replaces a batch.
type BatchRequest struct {
	Name      string       `json:"name" validate:"required,min=2,max=100"`
	Code      string       `json:"code" validate:"required,max=30"`
	CourseID  string       `json:"course_id" validate:"required,uuid"`
	TrainerID *string      `json:"trainer_id" validate:"omitempty,uuid"`
	BranchID  *string      `json:"branch_id" validate:"omitempty,uuid"`
	StartDate models.Date  `json:"start_date"`
	EndDate   *models.Date `json:"end_date"`
	Schedule  *string      `json:"schedule" validate:"omitempty,max=100"`
	Timings   *string      `json:"timings" validate:"omitempty,max=100"`
	Capacity  int          `json:"capacity" validate:"min=0"`
	IsActive  *bool        `json:"is_active"`
}
