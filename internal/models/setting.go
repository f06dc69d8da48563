package models

import "time"

// Well-known setting keys whose values must be JSON objects.
const (
	SettingKeyInstitute   = "institute"
	SettingKeyReceipt     = "receipt"
	SettingKeyCertificate = "certificate"
)

// Setting is a keyed JSON value, global when BranchID is nil.
type Setting struct {
	ID        string    `db:"id" json:"id"`
	BranchID  *string   `db:"branch_id" json:"branch_id,omitempty"`
	Key       string    `db:"setting_key" json:"key"`
	Value     JSONB     `db:"setting_value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
