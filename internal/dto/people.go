package dto

import "github.com/noah-isme/institute-erp-api/internal/models"

// StudentRequest creates or replaces a student. The admission number is assigned by the server.
type StudentRequest struct {
	FullName       string       `json:"full_name" validate:"required,min=2,max=100"`
	Email          *string      `json:"email" validate:"omitempty,email"`
	Phone          string       `json:"phone" validate:"required,min=5,max=20"`
	AlternatePhone *string      `json:"alternate_phone" validate:"omitempty,max=20"`
	Address        *string      `json:"address" validate:"omitempty,max=500"`
	DateOfBirth    *models.Date `json:"date_of_birth"`
	Gender         *string      `json:"gender" validate:"omitempty,oneof=male female other"`
	GuardianName   *string      `json:"guardian_name" validate:"omitempty,max=100"`
	GuardianPhone  *string      `json:"guardian_phone" validate:"omitempty,max=20"`
	Qualification  *string      `json:"qualification" validate:"omitempty,max=100"`
	Notes          *string      `json:"notes"`
	PhotoURL       *string      `json:"photo_url" validate:"omitempty,url"`
	BranchID       *string      `json:"branch_id" validate:"omitempty,uuid"`
	IsActive       *bool        `json:"is_active"`
}

// StaffCreateRequest provisions a sign-in account, staff profile and role at once.
type StaffCreateRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	FullName    string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
	BranchID    *string `json:"branch_id"`
	Role        string  `json:"role" validate:"omitempty,oneof=admin branch_manager trainer accounts reception"`
}

// StaffUpdateRequest edits a staff profile.
type StaffUpdateRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
	BranchID    *string `json:"branch_id"`
	IsActive    *bool   `json:"is_active"`
}

// RoleRequest grants or revokes a role.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin branch_manager trainer accounts reception"`
}

// ProfileUpdateRequest edits the caller's own profile.
type ProfileUpdateRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
}
