package models

import "time"

// CertificateStatus is the lifecycle of a certificate.
type CertificateStatus string

const (
	CertificateStatusIssued  CertificateStatus = "issued"
	CertificateStatusRevoked CertificateStatus = "revoked"
)

// Certificate is a completion credential. Course and batch names are copied at issue time.
type Certificate struct {
	ID                   string            `db:"id" json:"id"`
	CertificateNumber    string            `db:"certificate_number" json:"certificate_number"`
	StudentID            string            `db:"student_id" json:"student_id"`
	EnrollmentID         string            `db:"enrollment_id" json:"enrollment_id"`
	BranchID             *string           `db:"branch_id" json:"branch_id,omitempty"`
	CourseName           string            `db:"course_name" json:"course_name"`
	BatchName            string            `db:"batch_name" json:"batch_name"`
	Grade                *string           `db:"grade" json:"grade,omitempty"`
	AttendancePercentage *float64          `db:"attendance_percentage" json:"attendance_percentage,omitempty"`
	CompletionDate       *Date             `db:"completion_date" json:"completion_date,omitempty"`
	IssueDate            Date              `db:"issue_date" json:"issue_date"`
	IssuedBy             *string           `db:"issued_by" json:"issued_by,omitempty"`
	Status               CertificateStatus `db:"status" json:"status"`
	RevokeReason         *string           `db:"revoke_reason" json:"revoke_reason,omitempty"`
	TemplateID           *string           `db:"template_id" json:"template_id,omitempty"`
	DocumentPath         *string           `db:"document_path" json:"document_path,omitempty"`
	CreatedAt            time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time         `db:"updated_at" json:"updated_at"`
}

// CertificateDetail joins the student for display and rendering.
type CertificateDetail struct {
	Certificate
	StudentName     string `db:"student_name" json:"student_name"`
	AdmissionNumber string `db:"admission_number" json:"admission_number"`
}
