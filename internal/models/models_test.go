package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONAndScan(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-15"`), &d))
	assert.Equal(t, "2024-03-15", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(out))

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, d, scanned)

	require.NoError(t, scanned.Scan([]byte("2024-04-01T00:00:00Z")))
	assert.Equal(t, "2024-04-01", scanned.String())

	assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &d))
}

func TestPrincipalRoles(t *testing.T) {
	p := &Principal{Roles: []Role{RoleTrainer}}
	assert.True(t, p.HasRole(RoleTrainer))
	assert.False(t, p.HasRole(Role("Trainer")))
	assert.False(t, p.IsAdmin())

	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.HasRole(RoleAdmin))

	ctx := &AuthContext{User: UserInfo{ID: "u1"}, Roles: []Role{RoleAdmin}, Profile: &StaffProfile{ID: "p1"}}
	principal := ctx.Principal()
	assert.True(t, principal.IsAdmin())
	assert.Equal(t, "p1", principal.ProfileID)
}

func TestAttendanceSummaryPercentage(t *testing.T) {
	s := AttendanceSummary{Total: 3, Present: 1, Late: 1, Absent: 1}
	s.ComputePercentage()
	assert.Equal(t, 66.67, s.Percentage)

	empty := AttendanceSummary{}
	empty.ComputePercentage()
	assert.Zero(t, empty.Percentage)
}

func TestJSONBObject(t *testing.T) {
	assert.True(t, JSONB(`{"name":"x"}`).IsObject())
	assert.False(t, JSONB(`[1,2]`).IsObject())
	assert.True(t, JSONB(`[1,2]`).Valid())
	assert.False(t, JSONB(`{`).Valid())
}
