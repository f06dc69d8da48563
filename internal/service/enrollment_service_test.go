package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/internal/repository"
	"github.com/noah-isme/institute-erp-api/pkg/database"
)

type fakeEnrollmentRepo struct {
	enrollments map[string]*models.EnrollmentDetail
	active      map[string]int
	createErr   error
	created     *models.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: map[string]*models.EnrollmentDetail{}, active: map[string]int{}}
}

func (r *fakeEnrollmentRepo) List(ctx context.Context, filter repository.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	out := make([]models.EnrollmentDetail, 0, len(r.enrollments))
	for _, e := range r.enrollments {
		if filter.BatchID != "" && e.BatchID != filter.BatchID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	return stubEnrollments(r.enrollments).FindDetailByID(ctx, id)
}

func (r *fakeEnrollmentRepo) CountActiveInBatch(ctx context.Context, batchID string) (int, error) {
	return r.active[batchID], nil
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if r.createErr != nil {
		return r.createErr
	}
	enrollment.ID = testEnrollmentID
	r.created = enrollment
	r.enrollments[enrollment.ID] = &models.EnrollmentDetail{Enrollment: *enrollment, StudentName: "Asha Verma", BatchName: "FSWD Morning"}
	return nil
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	r.enrollments[enrollment.ID].Enrollment = *enrollment
	return nil
}

func (r *fakeEnrollmentRepo) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	e, ok := r.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	return nil
}

func (r *fakeEnrollmentRepo) Delete(ctx context.Context, id string) error {
	delete(r.enrollments, id)
	return nil
}

func newTestEnrollmentService(repo *fakeEnrollmentRepo, capacity int) *EnrollmentService {
	batches := stubBatches{
		testBatchID:      {Batch: models.Batch{ID: testBatchID, Capacity: capacity}},
		testOtherBatchID: {Batch: models.Batch{ID: testOtherBatchID, Capacity: 1}},
	}
	students := stubStudents{testStudentID: {ID: testStudentID}}
	return NewEnrollmentService(repo, batches, students, nil, nil)
}

func TestEnrollmentServiceCreate(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	svc := newTestEnrollmentService(repo, 30)

	actor := &models.Principal{UserID: "u1", ProfileID: "profile-1"}
	enrollment, err := svc.Create(context.Background(), dto.EnrollmentRequest{StudentID: testStudentID, BatchID: testBatchID, FeePaid: 5000, FeePending: 10000}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	require.NotNil(t, repo.created.EnrolledBy)
	assert.Equal(t, "profile-1", *repo.created.EnrolledBy)
	assert.False(t, repo.created.EnrollmentDate.IsZero())
}

func TestEnrollmentServiceDuplicate(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.createErr = database.ErrUniqueViolation
	svc := newTestEnrollmentService(repo, 0)

	_, err := svc.Create(context.Background(), dto.EnrollmentRequest{StudentID: testStudentID, BatchID: testBatchID}, nil)
	require.Error(t, err)
	appErr := appErrorOf(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Student is already enrolled in this batch", appErr.Message)
}

func TestEnrollmentServiceBatchFull(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.active[testBatchID] = 2
	svc := newTestEnrollmentService(repo, 2)

	_, err := svc.Create(context.Background(), dto.EnrollmentRequest{StudentID: testStudentID, BatchID: testBatchID}, nil)
	require.Error(t, err)
	assert.Equal(t, "Batch is full", appErrorOf(err).Message)
	assert.Nil(t, repo.created)
}

func TestEnrollmentServiceZeroCapacityIsUnlimited(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.active[testBatchID] = 500
	svc := newTestEnrollmentService(repo, 0)

	_, err := svc.Create(context.Background(), dto.EnrollmentRequest{StudentID: testStudentID, BatchID: testBatchID}, nil)
	require.NoError(t, err)
}

func TestEnrollmentServiceUnknownStudent(t *testing.T) {
	svc := newTestEnrollmentService(newFakeEnrollmentRepo(), 0)
	_, err := svc.Create(context.Background(), dto.EnrollmentRequest{StudentID: testOtherStudent, BatchID: testBatchID}, nil)
	require.Error(t, err)
	assert.Equal(t, "student not found", appErrorOf(err).Message)
}

func TestEnrollmentServiceMoveChecksTargetBatch(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.enrollments[testEnrollmentID] = &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: testEnrollmentID, StudentID: testStudentID, BatchID: testBatchID, Status: models.EnrollmentStatusActive}}
	repo.active[testOtherBatchID] = 1
	svc := newTestEnrollmentService(repo, 30)

	_, err := svc.Update(context.Background(), testEnrollmentID, dto.EnrollmentUpdateRequest{BatchID: testOtherBatchID, Status: "active"})
	require.Error(t, err)
	assert.Equal(t, "Batch is full", appErrorOf(err).Message)

	updated, err := svc.Update(context.Background(), testEnrollmentID, dto.EnrollmentUpdateRequest{BatchID: testBatchID, Status: "completed", FeePaid: 100})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, updated.Status)
	assert.Equal(t, 100.0, updated.FeePaid)
}

func TestEnrollmentServiceUpdateStatus(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.enrollments[testEnrollmentID] = &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: testEnrollmentID, Status: models.EnrollmentStatusActive}}
	svc := newTestEnrollmentService(repo, 0)

	updated, err := svc.UpdateStatus(context.Background(), testEnrollmentID, dto.EnrollmentStatusRequest{Status: "dropped"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), testEnrollmentID, dto.EnrollmentStatusRequest{Status: "paused"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorOf(err).Status)
}

func TestEnrollmentServiceReactivateNeedsSeat(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.enrollments[testEnrollmentID] = &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: testEnrollmentID, StudentID: testStudentID, BatchID: testBatchID, Status: models.EnrollmentStatusDropped}}
	repo.active[testBatchID] = 2
	svc := newTestEnrollmentService(repo, 2)

	_, err := svc.UpdateStatus(context.Background(), testEnrollmentID, dto.EnrollmentStatusRequest{Status: "active"})
	require.Error(t, err)
	appErr := appErrorOf(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Batch is full", appErr.Message)
	assert.Equal(t, models.EnrollmentStatusDropped, repo.enrollments[testEnrollmentID].Status)

	_, err = svc.Update(context.Background(), testEnrollmentID, dto.EnrollmentUpdateRequest{BatchID: testBatchID, Status: "active"})
	require.Error(t, err)
	assert.Equal(t, "Batch is full", appErrorOf(err).Message)

	repo.active[testBatchID] = 1
	updated, err := svc.UpdateStatus(context.Background(), testEnrollmentID, dto.EnrollmentStatusRequest{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, updated.Status)
}

func TestEnrollmentServiceActiveToActiveSkipsSeatCheck(t *testing.T) {
	repo := newFakeEnrollmentRepo()
	repo.enrollments[testEnrollmentID] = &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: testEnrollmentID, BatchID: testBatchID, Status: models.EnrollmentStatusActive}}
	repo.active[testBatchID] = 2
	svc := newTestEnrollmentService(repo, 2)

	_, err := svc.UpdateStatus(context.Background(), testEnrollmentID, dto.EnrollmentStatusRequest{Status: "active"})
	require.NoError(t, err)
}
