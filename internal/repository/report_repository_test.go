package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepositoryMonthlyActivitySingleQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"month_start", "enrollments", "receipts", "revenue", "certificates", "attendance_rate"}).
		AddRow(from, 3, 2, 4500.5, 1, 80.0).
		AddRow(last, 0, 0, 0.0, 0, 0.0)
	mock.ExpectQuery("WITH months AS").
		WithArgs("2024-01-01", "2024-02-01", "2024-03-01").
		WillReturnRows(rows)

	series, err := repo.MonthlyActivity(context.Background(), from, last)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 4500.5, series[0].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"active_students", "active_courses", "active_batches", "active_enrollments", "valid_receipts", "issued_certificates"}).
			AddRow(120, 8, 14, 96, 310, 42))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.ActiveStudents)
	assert.Equal(t, 42, stats.IssuedCertificates)
	assert.NoError(t, mock.ExpectationsWereMet())
}
