package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type fakeStudentService struct {
	query  dto.ListQuery
	listed bool
	id     string
	req    dto.StudentRequest
	err    error
}

func (f *fakeStudentService) List(_ context.Context, q dto.ListQuery) ([]models.Student, *models.Pagination, error) {
	f.listed = true
	f.query = q
	return []models.Student{{ID: "s-1", FullName: "Asha Verma"}}, &models.Pagination{Page: 1, PageSize: 1, TotalCount: 1}, nil
}

func (f *fakeStudentService) Get(_ context.Context, id string) (*models.Student, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: id}, nil
}

func (f *fakeStudentService) Create(_ context.Context, req dto.StudentRequest) (*models.Student, error) {
	f.req = req
	return &models.Student{ID: "s-1", FullName: req.FullName}, f.err
}

func (f *fakeStudentService) Update(_ context.Context, id string, req dto.StudentRequest) (*models.Student, error) {
	f.id = id
	f.req = req
	return &models.Student{ID: id}, f.err
}

func (f *fakeStudentService) Delete(_ context.Context, id string) error {
	f.id = id
	return f.err
}

type fakeCourseService struct {
	query dto.ListQuery
	id    string
	err   error
}

func (f *fakeCourseService) List(_ context.Context, q dto.ListQuery) ([]models.Course, *models.Pagination, error) {
	f.query = q
	return []models.Course{}, &models.Pagination{Page: 1}, nil
}

func (f *fakeCourseService) Get(_ context.Context, id string) (*models.Course, error) {
	f.id = id
	return &models.Course{ID: id}, f.err
}

func (f *fakeCourseService) Create(_ context.Context, req dto.CourseRequest) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Course{ID: "c-1", Code: req.Code}, nil
}

func (f *fakeCourseService) Update(_ context.Context, id string, _ dto.CourseRequest) (*models.Course, error) {
	f.id = id
	return &models.Course{ID: id}, f.err
}

func (f *fakeCourseService) Delete(_ context.Context, id string) error {
	f.id = id
	return f.err
}

type fakeBatchService struct {
	query    dto.ListQuery
	listed   bool
	id       string
	req      dto.BatchRequest
	trainers []models.StaffProfile
	err      error
}

func (f *fakeBatchService) List(_ context.Context, q dto.ListQuery) ([]models.BatchDetail, *models.Pagination, error) {
	f.listed = true
	f.query = q
	return []models.BatchDetail{{Batch: models.Batch{ID: "b-1"}, CourseName: "Full Stack", TrainerName: strPtr("Ravi")}}, &models.Pagination{Page: 1, PageSize: 1, TotalCount: 1}, nil
}

func (f *fakeBatchService) Get(_ context.Context, id string) (*models.BatchDetail, error) {
	f.id = id
	return &models.BatchDetail{Batch: models.Batch{ID: id}}, f.err
}

func (f *fakeBatchService) Trainers(context.Context) ([]models.StaffProfile, error) {
	return f.trainers, f.err
}

func (f *fakeBatchService) Create(_ context.Context, req dto.BatchRequest) (*models.BatchDetail, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BatchDetail{Batch: models.Batch{ID: "b-1", Code: req.Code}}, nil
}

func (f *fakeBatchService) Update(_ context.Context, id string, req dto.BatchRequest) (*models.BatchDetail, error) {
	f.id = id
	f.req = req
	return &models.BatchDetail{Batch: models.Batch{ID: id}}, f.err
}

func (f *fakeBatchService) Delete(_ context.Context, id string) error {
	f.id = id
	return f.err
}

type fakeBranchService struct {
	query dto.ListQuery
	id    string
	req   dto.BranchRequest
	err   error
}

func (f *fakeBranchService) List(_ context.Context, q dto.ListQuery) ([]models.Branch, *models.Pagination, error) {
	f.query = q
	return []models.Branch{}, &models.Pagination{Page: 1}, nil
}

func (f *fakeBranchService) Get(_ context.Context, id string) (*models.Branch, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Branch{ID: id}, nil
}

func (f *fakeBranchService) Create(_ context.Context, req dto.BranchRequest) (*models.Branch, error) {
	f.req = req
	return &models.Branch{ID: "br-1", Code: req.Code}, f.err
}

func (f *fakeBranchService) Update(_ context.Context, id string, req dto.BranchRequest) (*models.Branch, error) {
	f.id = id
	f.req = req
	return &models.Branch{ID: id}, f.err
}

func (f *fakeBranchService) Delete(_ context.Context, id string) error {
	f.id = id
	return f.err
}

func strPtr(v string) *string {
	return &v
}

var referencedErr = appErrors.Clone(appErrors.ErrConflict, "record is still referenced")

func TestStudentHandlerListPassesQuery(t *testing.T) {
	svc := &fakeStudentService{}
	handler := NewStudentHandler(svc)
	c, w := newGinContext(http.MethodGet, "/students?search=%20asha%20&page=3&limit=25", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "asha", svc.query.Search)
	assert.Equal(t, 3, svc.query.Page)
	assert.Equal(t, 25, svc.query.PageSize)
	envelope := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, envelope.Pagination["total_count"])
}

func TestListHandlersRejectOutOfRangePaging(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		message string
	}{
		{"limit above max", "?limit=100000", "page size must be between 1 and 200"},
		{"page_size above max", "?page_size=201", "page size must be between 1 and 200"},
		{"huge page", "?page=4611686018427387904&limit=4", "page must be between 1 and 100000"},
		{"negative limit", "?limit=-5", "limit must be a positive number"},
		{"non numeric limit", "?limit=ten", "limit must be a positive number"},
		{"page beyond int", "?page=99999999999999999999", "invalid query parameters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeStudentService{}
			c, w := newGinContext(http.MethodGet, "/students"+tc.query, nil)

			NewStudentHandler(svc).List(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, svc.listed)
			assert.Equal(t, tc.message, decodeEnvelope(t, w).Error["message"])
		})
	}
}

func TestListHandlersAcceptMaxPaging(t *testing.T) {
	svc := &fakeBatchService{}
	c, w := newGinContext(http.MethodGet, "/batches?page=100000&limit=200", nil)

	NewBatchHandler(svc).List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.listed)
	assert.Equal(t, 100000, svc.query.Page)
	assert.Equal(t, 200, svc.query.PageSize)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	svc := &fakeStudentService{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}
	c, w := newGinContext(http.MethodGet, "/students/s-9", nil)
	withParams(c, "id", "s-9")

	NewStudentHandler(svc).Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "s-9", svc.id)
	assert.Equal(t, "student not found", decodeEnvelope(t, w).Error["message"])
}

func TestStudentHandlerCreate(t *testing.T) {
	svc := &fakeStudentService{}
	c, w := newGinContext(http.MethodPost, "/students", mustJSON(t, dto.StudentRequest{FullName: "Asha Verma", Phone: "9876543210"}))

	NewStudentHandler(svc).Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Asha Verma", svc.req.FullName)
}

func TestStudentHandlerCreateRejectsMalformedJSON(t *testing.T) {
	svc := &fakeStudentService{}
	c, w := newGinContext(http.MethodPost, "/students", []byte(`{"full_name":`))

	NewStudentHandler(svc).Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid payload", decodeEnvelope(t, w).Error["message"])
}

func TestCourseHandlerCreateConflict(t *testing.T) {
	svc := &fakeCourseService{err: appErrors.Clone(appErrors.ErrConflict, "course already exists")}
	c, w := newGinContext(http.MethodPost, "/courses", mustJSON(t, dto.CourseRequest{Name: "Full Stack", Code: "FSWD"}))

	NewCourseHandler(svc).Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "course already exists", decodeEnvelope(t, w).Error["message"])
}

func TestCourseHandlerDelete(t *testing.T) {
	svc := &fakeCourseService{}
	c, _ := newGinContext(http.MethodDelete, "/courses/c-1", nil)
	withParams(c, "id", "c-1")

	NewCourseHandler(svc).Delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "c-1", svc.id)
}

func TestBatchHandlerListIncludesJoinedNames(t *testing.T) {
	svc := &fakeBatchService{}
	c, w := newGinContext(http.MethodGet, "/batches?search=full", nil)

	NewBatchHandler(svc).List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "full", svc.query.Search)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"course_name":"Full Stack"`)
	assert.Contains(t, w.Body.String(), `"trainer_name":"Ravi"`)
}

func TestBatchHandlerTrainers(t *testing.T) {
	svc := &fakeBatchService{trainers: []models.StaffProfile{{ID: "t-1", FullName: "Ravi Kumar"}}}
	c, w := newGinContext(http.MethodGet, "/batches/trainers", nil)

	NewBatchHandler(svc).Trainers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), "Ravi Kumar")
}

func TestBatchHandlerUpdatePassesID(t *testing.T) {
	svc := &fakeBatchService{}
	c, w := newGinContext(http.MethodPut, "/batches/b-2", []byte(`{"name":"Jan Morning","code":"fswd-jan","course_id":"3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e01","start_date":"2026-01-05","capacity":30}`))
	withParams(c, "id", "b-2")

	NewBatchHandler(svc).Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b-2", svc.id)
	assert.Equal(t, "fswd-jan", svc.req.Code)
	assert.Equal(t, 30, svc.req.Capacity)
}

func TestBatchHandlerDeleteReferenced(t *testing.T) {
	svc := &fakeBatchService{err: referencedErr}
	c, w := newGinContext(http.MethodDelete, "/batches/b-1", nil)
	withParams(c, "id", "b-1")

	NewBatchHandler(svc).Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "record is still referenced", decodeEnvelope(t, w).Error["message"])
}

func TestBranchHandlerCreateAndDeleteReferenced(t *testing.T) {
	svc := &fakeBranchService{}
	c, w := newGinContext(http.MethodPost, "/branches", mustJSON(t, dto.BranchRequest{Name: "Andheri West", Code: "and-w"}))

	NewBranchHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "and-w", svc.req.Code)

	svc.err = referencedErr
	c, w = newGinContext(http.MethodDelete, "/branches/br-1", nil)
	withParams(c, "id", "br-1")

	NewBranchHandler(svc).Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "br-1", svc.id)
}

func TestBranchHandlerGetNotFound(t *testing.T) {
	svc := &fakeBranchService{err: appErrors.Clone(appErrors.ErrNotFound, "branch not found")}
	c, w := newGinContext(http.MethodGet, "/branches/missing", nil)
	withParams(c, "id", "missing")

	NewBranchHandler(svc).Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
