package models

import "time"

// StaffProfile is the staff record linked 1:1 to a user.
type StaffProfile struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	EmployeeID  string    `db:"employee_id" json:"employee_id"`
	FullName    string    `db:"full_name" json:"full_name"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Designation *string   `db:"designation" json:"designation,omitempty"`
	BranchID    *string   `db:"branch_id" json:"branch_id,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StaffMember is a staff profile with its branch name and granted roles.
type StaffMember struct {
	StaffProfile
	BranchName *string `db:"branch_name" json:"branch_name,omitempty"`
	Roles      []Role  `db:"-" json:"roles"`
}
