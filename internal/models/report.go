package models

import "time"

// ReportMonth is one bucket of the monthly activity series.
type ReportMonth struct {
	MonthStart     time.Time `db:"month_start" json:"-"`
	Month          string    `db:"-" json:"month"`
	Enrollments    int       `db:"enrollments" json:"enrollments"`
	Receipts       int       `db:"receipts" json:"receipts"`
	Revenue        float64   `db:"revenue" json:"revenue"`
	Certificates   int       `db:"certificates" json:"certificates"`
	AttendanceRate float64   `db:"attendance_rate" json:"attendance_rate"`
}

// ReportTotals sums a series.
type ReportTotals struct {
	Enrollments  int     `json:"enrollments"`
	Receipts     int     `json:"receipts"`
	Revenue      float64 `json:"revenue"`
	Certificates int     `json:"certificates"`
}

// ReportSummary is the monthly activity report.
type ReportSummary struct {
	Months      int           `json:"months"`
	From        Date          `json:"from"`
	To          Date          `json:"to"`
	Series      []ReportMonth `json:"series"`
	Totals      ReportTotals  `json:"totals"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// ReportExport describes a generated export file.
type ReportExport struct {
	Format    string    `json:"format"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
