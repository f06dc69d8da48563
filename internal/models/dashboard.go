package models

import "time"

// DashboardStats holds the headline counts shown after sign-in.
type DashboardStats struct {
	ActiveStudents     int       `db:"active_students" json:"active_students"`
	ActiveCourses      int       `db:"active_courses" json:"active_courses"`
	ActiveBatches      int       `db:"active_batches" json:"active_batches"`
	ActiveEnrollments  int       `db:"active_enrollments" json:"active_enrollments"`
	ValidReceipts      int       `db:"valid_receipts" json:"valid_receipts"`
	IssuedCertificates int       `db:"issued_certificates" json:"issued_certificates"`
	GeneratedAt        time.Time `db:"-" json:"generated_at"`
}
