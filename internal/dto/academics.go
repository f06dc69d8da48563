package dto

import "github.com/noah-isme/institute-erp-api/internal/models"

// EnrollmentRequest enrolls a student into a batch.
type EnrollmentRequest struct {
	StudentID      string       `json:"student_id" validate:"required,uuid"`
	BatchID        string       `json:"batch_id" validate:"required,uuid"`
	EnrollmentDate *models.Date `json:"enrollment_date"`
	FeePaid        float64      `json:"fee_paid" validate:"gte=0"`
	FeePending     float64      `json:"fee_pending" validate:"gte=0"`
	Notes          *string      `json:"notes" validate:"omitempty,max=1000"`
}

// EnrollmentUpdateRequest edits fees, notes, batch and status.
type EnrollmentUpdateRequest struct {
	BatchID        string       `json:"batch_id" validate:"required,uuid"`
	EnrollmentDate *models.Date `json:"enrollment_date"`
	Status         string       `json:"status" validate:"required,oneof=active completed dropped transferred"`
	FeePaid        float64      `json:"fee_paid" validate:"gte=0"`
	FeePending     float64      `json:"fee_pending" validate:"gte=0"`
	Notes          *string      `json:"notes" validate:"omitempty,max=1000"`
}

// EnrollmentStatusRequest transitions an enrollment.
type EnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed dropped transferred"`
}

// EnrollmentQuery narrows enrollment lists.
type EnrollmentQuery struct {
	ListQuery
	StudentID string `form:"student_id" validate:"omitempty,uuid"`
	BatchID   string `form:"batch_id" validate:"omitempty,uuid"`
	Status    string `form:"status" validate:"omitempty,oneof=active completed dropped transferred"`
}

// AttendanceMark is one enrollment's status in a save request.
type AttendanceMark struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required,uuid"`
	Status       string  `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks      *string `json:"remarks" validate:"omitempty,max=500"`
}

// AttendanceSaveRequest replaces the marks of one batch session.
type AttendanceSaveRequest struct {
	BatchID       string           `json:"batch_id" validate:"required,uuid"`
	SessionDate   models.Date      `json:"session_date"`
	SessionNumber *int             `json:"session_number" validate:"omitempty,min=1"`
	Records       []AttendanceMark `json:"records" validate:"dive"`
}

// AttendanceQuery selects a batch session roster.
type AttendanceQuery struct {
	BatchID string `form:"batch_id" validate:"required,uuid"`
	Date    string `form:"date" validate:"required"`
}

// CertificateRequest issues a certificate for an enrollment.
type CertificateRequest struct {
	EnrollmentID         string       `json:"enrollment_id" validate:"required,uuid"`
	Grade                *string      `json:"grade" validate:"omitempty,max=20"`
	AttendancePercentage *float64     `json:"attendance_percentage" validate:"omitempty,gte=0,lte=100"`
	CompletionDate       *models.Date `json:"completion_date"`
	TemplateID           *string      `json:"template_id" validate:"omitempty,max=50"`
}
