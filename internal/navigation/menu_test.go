package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

func labels(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func TestVisibleWithoutRolesShowsEverything(t *testing.T) {
	assert.Equal(t, labels(Menu), labels(Visible(Menu, nil, true)))
	assert.Empty(t, Visible(Menu, nil, false))
}

func TestVisibleTrainer(t *testing.T) {
	got := Visible(Menu, []models.Role{models.RoleTrainer}, true)
	assert.Equal(t, []string{"Dashboard", "Batches", "Attendance"}, labels(got))
}

func TestVisibleAccounts(t *testing.T) {
	got := Visible(Menu, []models.Role{models.RoleAccounts}, true)
	assert.Equal(t, []string{"Dashboard", "Receipts"}, labels(got))
}

func TestVisibleAdminSeesAdminSection(t *testing.T) {
	got := Visible(Menu, []models.Role{models.RoleAdmin}, true)
	assert.Len(t, got, len(Menu))
}

func TestVisibleUnionOfRoles(t *testing.T) {
	got := Visible(Menu, []models.Role{models.RoleTrainer, models.RoleReception}, true)
	assert.Equal(t, []string{"Dashboard", "Students", "Batches", "Enrollments", "Attendance", "Receipts"}, labels(got))
}

func TestVisibleIsExactMatch(t *testing.T) {
	got := Visible(Menu, []models.Role{models.Role("ADMIN")}, true)
	assert.Empty(t, got)
}
