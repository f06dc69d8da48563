package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive      EnrollmentStatus = "active"
	EnrollmentStatusCompleted   EnrollmentStatus = "completed"
	EnrollmentStatusDropped     EnrollmentStatus = "dropped"
	EnrollmentStatusTransferred EnrollmentStatus = "transferred"
)

// Valid reports whether s is a supported status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusDropped, EnrollmentStatusTransferred:
		return true
	default:
		return false
	}
}

// Enrollment links a student to a batch.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	BatchID        string           `db:"batch_id" json:"batch_id"`
	EnrollmentDate Date             `db:"enrollment_date" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	FeePaid        float64          `db:"fee_paid" json:"fee_paid"`
	FeePending     float64          `db:"fee_pending" json:"fee_pending"`
	Notes          *string          `db:"notes" json:"notes,omitempty"`
	EnrolledBy     *string          `db:"enrolled_by" json:"enrolled_by,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student, batch and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentName     string  `db:"student_name" json:"student_name"`
	AdmissionNumber string  `db:"admission_number" json:"admission_number"`
	StudentBranchID *string `db:"student_branch_id" json:"-"`
	BatchName       string  `db:"batch_name" json:"batch_name"`
	CourseID        string  `db:"course_id" json:"course_id"`
	CourseName      string  `db:"course_name" json:"course_name"`
}
