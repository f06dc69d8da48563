package service

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
)

type fakeStudentRepo struct {
	students  map[string]*models.Student
	taken     map[string]bool
	createErr []error
	created   []string
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]*models.Student{}, taken: map[string]bool{}}
}

func (r *fakeStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return stubStudents(r.students).FindByID(ctx, id)
}

func (r *fakeStudentRepo) ExistsByAdmissionNumber(ctx context.Context, number string) (bool, error) {
	return r.taken[number], nil
}

func (r *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.created = append(r.created, student.AdmissionNumber)
	if len(r.createErr) > 0 {
		err := r.createErr[0]
		r.createErr = r.createErr[1:]
		if err != nil {
			return err
		}
	}
	student.ID = "student-" + student.AdmissionNumber
	copied := *student
	r.students[student.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	copied := *student
	r.students[student.ID] = &copied
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.students[id]; !ok {
		return errors.New("sql: no rows in result set")
	}
	delete(r.students, id)
	return nil
}

func newTestStudentService(repo *fakeStudentRepo, digits ...int) *StudentService {
	svc := NewStudentService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	i := 0
	svc.intn = func(n int) int {
		d := digits[i%len(digits)]
		i++
		return d
	}
	return svc
}

func validStudentRequest() dto.StudentRequest {
	return dto.StudentRequest{FullName: "Asha Verma", Phone: "9876543210"}
}

func TestStudentServiceCreateAssignsAdmissionNumber(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := newTestStudentService(repo, 42)

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, "GT20260042", student.AdmissionNumber)
	assert.Regexp(t, regexp.MustCompile(`^GT2026\d{4}$`), student.AdmissionNumber)
	assert.True(t, student.IsActive)
}

func TestStudentServiceCreateRetriesTakenNumbers(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.taken["GT20260001"] = true
	repo.createErr = []error{database.ErrUniqueViolation}
	svc := newTestStudentService(repo, 1, 2, 3)

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, "GT20260003", student.AdmissionNumber)
	assert.Equal(t, []string{"GT20260002", "GT20260003"}, repo.created)
}

func TestStudentServiceCreateGivesUpAfterFiveAttempts(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.taken["GT20260007"] = true
	svc := newTestStudentService(repo, 7)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrorOf(err).Status)
	assert.Empty(t, repo.created)
}

func TestStudentServiceCreateValidates(t *testing.T) {
	svc := newTestStudentService(newFakeStudentRepo(), 1)
	_, err := svc.Create(context.Background(), dto.StudentRequest{FullName: "A"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorOf(err).Status)
}

func TestStudentServiceUpdateKeepsAdmissionNumber(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.students[testStudentID] = &models.Student{ID: testStudentID, AdmissionNumber: "GT20250099", FullName: "Old", Phone: "12345", IsActive: false}
	svc := newTestStudentService(repo, 5)

	req := validStudentRequest()
	updated, err := svc.Update(context.Background(), testStudentID, req)
	require.NoError(t, err)
	assert.Equal(t, "GT20250099", updated.AdmissionNumber)
	assert.Equal(t, "Asha Verma", updated.FullName)
	assert.False(t, updated.IsActive)
}

func TestStudentServiceListSearches(t *testing.T) {
	repo := newFakeStudentRepo()
	repo.students["a"] = &models.Student{ID: "a", FullName: "Asha Verma", AdmissionNumber: "GT20260001", Phone: "111"}
	repo.students["b"] = &models.Student{ID: "b", FullName: "Ravi Kumar", AdmissionNumber: "GT20260002", Phone: "222", Email: strPtr("ravi@example.com")}
	svc := newTestStudentService(repo, 1)

	items, pagination, err := svc.List(context.Background(), dto.ListQuery{Search: "RAVI@"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, 1, pagination.TotalCount)
}
