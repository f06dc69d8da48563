package models

import "time"

// PaymentMode is how a fee was paid.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeCard         PaymentMode = "card"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeCheque       PaymentMode = "cheque"
)

// ReceiptStatus is the lifecycle of a receipt.
type ReceiptStatus string

const (
	ReceiptStatusValid    ReceiptStatus = "valid"
	ReceiptStatusVoided   ReceiptStatus = "voided"
	ReceiptStatusRefunded ReceiptStatus = "refunded"
)

// ReceiptType selects the issuing brand printed on the receipt.
type ReceiptType string

const (
	ReceiptTypeTechnology ReceiptType = "GT"
	ReceiptTypeAcademy    ReceiptType = "GA"
)

// Receipt records a fee payment.
type Receipt struct {
	ID            string        `db:"id" json:"id"`
	ReceiptNumber string        `db:"receipt_number" json:"receipt_number"`
	ReceiptType   ReceiptType   `db:"receipt_type" json:"receipt_type"`
	StudentID     string        `db:"student_id" json:"student_id"`
	EnrollmentID  *string       `db:"enrollment_id" json:"enrollment_id,omitempty"`
	BranchID      *string       `db:"branch_id" json:"branch_id,omitempty"`
	Amount        float64       `db:"amount" json:"amount"`
	PaymentMode   PaymentMode   `db:"payment_mode" json:"payment_mode"`
	PaymentDate   Date          `db:"payment_date" json:"payment_date"`
	Description   *string       `db:"description" json:"description,omitempty"`
	Remarks       *string       `db:"remarks" json:"remarks,omitempty"`
	Status        ReceiptStatus `db:"status" json:"status"`
	VoidReason    *string       `db:"void_reason" json:"void_reason,omitempty"`
	GeneratedBy   *string       `db:"generated_by" json:"generated_by,omitempty"`
	DocumentPath  *string       `db:"document_path" json:"document_path,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// ReceiptDetail joins the student and, when linked, the enrolled course.
type ReceiptDetail struct {
	Receipt
	StudentName     string  `db:"student_name" json:"student_name"`
	AdmissionNumber string  `db:"admission_number" json:"admission_number"`
	StudentPhone    string  `db:"student_phone" json:"student_phone"`
	CourseName      *string `db:"course_name" json:"course_name,omitempty"`
	BatchName       *string `db:"batch_name" json:"batch_name,omitempty"`
}
