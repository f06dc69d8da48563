package dto

import (
	"encoding/json"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

// ReceiptRequest records a payment. The receipt number is assigned by the database.
type ReceiptRequest struct {
	StudentID    string       `json:"student_id" validate:"required,uuid"`
	EnrollmentID *string      `json:"enrollment_id" validate:"omitempty,uuid"`
	Amount       float64      `json:"amount" validate:"required,gt=0"`
	PaymentMode  string       `json:"payment_mode" validate:"required,oneof=cash card upi bank_transfer cheque"`
	ReceiptType  string       `json:"receipt_type" validate:"omitempty,oneof=GA GT"`
	PaymentDate  *models.Date `json:"payment_date"`
	Description  *string      `json:"description" validate:"omitempty,max=500"`
	Remarks      *string      `json:"remarks" validate:"omitempty,max=500"`
}

// ReceiptQuery narrows receipt lists.
type ReceiptQuery struct {
	ListQuery
	StudentID string `form:"student_id" validate:"omitempty,uuid"`
}

// DocumentQuery selects the rendition of a receipt or certificate.
type DocumentQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=html txt pdf"`
}

// SettingUpsertRequest writes one setting value.
type SettingUpsertRequest struct {
	BranchID *string         `json:"branch_id" validate:"omitempty,uuid"`
	Value    json.RawMessage `json:"value" validate:"required"`
}

// SettingBulkItem is one entry of a bulk settings write.
type SettingBulkItem struct {
	Key   string          `json:"key" validate:"required,max=100"`
	Value json.RawMessage `json:"value" validate:"required"`
}

// SettingBulkRequest writes several settings of one scope atomically.
type SettingBulkRequest struct {
	BranchID *string           `json:"branch_id" validate:"omitempty,uuid"`
	Items    []SettingBulkItem `json:"items" validate:"required,min=1,dive"`
}

// ReportQuery picks the report window.
type ReportQuery struct {
	Months int `form:"months" validate:"omitempty,oneof=6 12"`
}

// ReportExportRequest asks for a downloadable report file.
type ReportExportRequest struct {
	Months int    `json:"months" validate:"omitempty,oneof=6 12"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}
