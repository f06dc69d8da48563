package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// Attendance is one enrollment's mark for one batch session date.
type Attendance struct {
	ID            string           `db:"id" json:"id"`
	BatchID       string           `db:"batch_id" json:"batch_id"`
	EnrollmentID  string           `db:"enrollment_id" json:"enrollment_id"`
	SessionDate   Date             `db:"session_date" json:"session_date"`
	SessionNumber *int             `db:"session_number" json:"session_number,omitempty"`
	Status        AttendanceStatus `db:"status" json:"status"`
	MarkedBy      *string          `db:"marked_by" json:"marked_by,omitempty"`
	Remarks       *string          `db:"remarks" json:"remarks,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceRosterEntry is an active enrollment of a batch with its mark for a date, if any.
type AttendanceRosterEntry struct {
	EnrollmentID    string            `db:"enrollment_id" json:"enrollment_id"`
	StudentID       string            `db:"student_id" json:"student_id"`
	StudentName     string            `db:"student_name" json:"student_name"`
	AdmissionNumber string            `db:"admission_number" json:"admission_number"`
	Status          *AttendanceStatus `db:"status" json:"status,omitempty"`
	Remarks         *string           `db:"remarks" json:"remarks,omitempty"`
}

// AttendanceSummary aggregates one enrollment's attendance.
type AttendanceSummary struct {
	EnrollmentID string  `db:"enrollment_id" json:"enrollment_id"`
	Total        int     `db:"total" json:"total"`
	Present      int     `db:"present" json:"present"`
	Absent       int     `db:"absent" json:"absent"`
	Late         int     `db:"late" json:"late"`
	Excused      int     `db:"excused" json:"excused"`
	Percentage   float64 `db:"-" json:"percentage"`
}

// ComputePercentage counts present and late sessions as attended.
func (s *AttendanceSummary) ComputePercentage() {
	if s.Total == 0 {
		s.Percentage = 0
		return
	}
	raw := float64(s.Present+s.Late) * 100 / float64(s.Total)
	s.Percentage = float64(int(raw*100+0.5)) / 100
}
