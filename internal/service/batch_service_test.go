package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
)

const testCourseID = "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e01"

type fakeBatchRepo struct {
	batches   map[string]*models.BatchDetail
	created   *models.Batch
	deleteErr error
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: map[string]*models.BatchDetail{}}
}

func (r *fakeBatchRepo) List(ctx context.Context) ([]models.BatchDetail, error) {
	out := make([]models.BatchDetail, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBatchRepo) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	return stubBatches(r.batches).FindByID(ctx, id)
}

func (r *fakeBatchRepo) Create(ctx context.Context, batch *models.Batch) error {
	batch.ID = testBatchID
	r.created = batch
	r.batches[batch.ID] = &models.BatchDetail{Batch: *batch, CourseName: "Full Stack Web Development", TrainerName: strPtr("Ravi Kumar")}
	return nil
}

func (r *fakeBatchRepo) Update(ctx context.Context, batch *models.Batch) error {
	existing, ok := r.batches[batch.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.Batch = *batch
	return nil
}

func (r *fakeBatchRepo) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.batches[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.batches, id)
	return nil
}

type stubTrainers struct {
	trainers []models.StaffProfile
	err      error
}

func (s stubTrainers) ListTrainers(ctx context.Context) ([]models.StaffProfile, error) {
	return s.trainers, s.err
}

func batchRequest() dto.BatchRequest {
	return dto.BatchRequest{
		Name:      " FSWD Morning ",
		Code:      "fswd-jan ",
		CourseID:  testCourseID,
		StartDate: models.NewDate(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)),
		Capacity:  30,
	}
}

func TestBatchServiceCreateNormalizesCode(t *testing.T) {
	repo := newFakeBatchRepo()
	svc := NewBatchService(repo, stubTrainers{}, nil, nil)

	batch, err := svc.Create(context.Background(), batchRequest())
	require.NoError(t, err)
	assert.Equal(t, "FSWD-JAN", repo.created.Code)
	assert.Equal(t, "FSWD Morning", repo.created.Name)
	assert.True(t, repo.created.IsActive)
	assert.Equal(t, "Full Stack Web Development", batch.CourseName)
	require.NotNil(t, batch.TrainerName)
	assert.Equal(t, "Ravi Kumar", *batch.TrainerName)
}

func TestBatchServiceCreateRejectsBadDates(t *testing.T) {
	svc := NewBatchService(newFakeBatchRepo(), stubTrainers{}, nil, nil)

	req := batchRequest()
	req.StartDate = models.Date{}
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "start_date is required", appErrorOf(err).Message)

	req = batchRequest()
	end := models.NewDate(req.StartDate.AddDate(0, 0, -1))
	req.EndDate = &end
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorOf(err).Status)
	assert.Equal(t, "end_date must not be before start_date", appErrorOf(err).Message)
}

func TestBatchServiceListSearchesCourseName(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.batches[testBatchID] = &models.BatchDetail{Batch: models.Batch{ID: testBatchID, Name: "Morning", Code: "FSWD-JAN"}, CourseName: "Full Stack Web Development", TrainerName: strPtr("Ravi Kumar"), EnrolledCount: 12}
	repo.batches[testOtherBatchID] = &models.BatchDetail{Batch: models.Batch{ID: testOtherBatchID, Name: "Evening", Code: "DM-FEB"}, CourseName: "Digital Marketing"}
	svc := NewBatchService(repo, stubTrainers{}, nil, nil)

	items, pagination, err := svc.List(context.Background(), dto.ListQuery{Search: "full stack"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, testBatchID, items[0].ID)
	require.NotNil(t, items[0].TrainerName)
	assert.Equal(t, "Ravi Kumar", *items[0].TrainerName)
	assert.Equal(t, 12, items[0].EnrolledCount)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestBatchServiceDeleteReferenced(t *testing.T) {
	repo := newFakeBatchRepo()
	repo.deleteErr = fmt.Errorf("delete batch: %w", database.ErrForeignKeyViolation)
	svc := NewBatchService(repo, stubTrainers{}, nil, nil)

	err := svc.Delete(context.Background(), testBatchID)
	require.Error(t, err)
	appErr := appErrorOf(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "record is still referenced", appErr.Message)
}

func TestBatchServiceDeleteMissing(t *testing.T) {
	svc := NewBatchService(newFakeBatchRepo(), stubTrainers{}, nil, nil)

	err := svc.Delete(context.Background(), testBatchID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrorOf(err).Status)
	assert.Equal(t, "batch not found", appErrorOf(err).Message)
}

func TestBatchServiceTrainers(t *testing.T) {
	svc := NewBatchService(newFakeBatchRepo(), stubTrainers{trainers: []models.StaffProfile{{ID: "t1", FullName: "Ravi Kumar"}}}, nil, nil)
	trainers, err := svc.Trainers(context.Background())
	require.NoError(t, err)
	require.Len(t, trainers, 1)

	svc = NewBatchService(newFakeBatchRepo(), stubTrainers{err: errors.New("connection reset")}, nil, nil)
	_, err = svc.Trainers(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrorOf(err).Status)
}
