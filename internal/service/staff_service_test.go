package service

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
)

type fakeStaffStore struct {
	members   map[string]*models.StaffMember
	users     map[string]*models.User
	createErr error
	revoked   []string
}

func newFakeStaffStore() *fakeStaffStore {
	return &fakeStaffStore{members: map[string]*models.StaffMember{}, users: map[string]*models.User{}}
}

func (f *fakeStaffStore) add(profileID, userID string, roles ...models.Role) {
	f.members[profileID] = &models.StaffMember{
		StaffProfile: models.StaffProfile{ID: profileID, UserID: userID, FullName: "Staff " + profileID, IsActive: true},
		Roles:        roles,
	}
	f.users[userID] = &models.User{ID: userID, Active: true}
}

func (f *fakeStaffStore) memberByUser(userID string) *models.StaffMember {
	for _, m := range f.members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

func (f *fakeStaffStore) List(ctx context.Context) ([]models.StaffMember, error) {
	out := make([]models.StaffMember, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeStaffStore) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *m
	copied.Roles = append([]models.Role(nil), m.Roles...)
	return &copied, nil
}

func (f *fakeStaffStore) Update(ctx context.Context, profile *models.StaffProfile) error {
	m, ok := f.members[profile.ID]
	if !ok {
		return sql.ErrNoRows
	}
	m.StaffProfile = *profile
	return nil
}

func (f *fakeStaffStore) CreateWithProfile(ctx context.Context, user *models.User, profile *models.StaffProfile, roles []models.Role) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = "user-new"
	profile.ID = "profile-new"
	profile.UserID = user.ID
	f.users[user.ID] = user
	f.members[profile.ID] = &models.StaffMember{StaffProfile: *profile, Roles: roles}
	return nil
}

func (f *fakeStaffStore) SetActive(ctx context.Context, id string, active bool) error {
	f.users[id].Active = active
	return nil
}

func (f *fakeStaffStore) AssignRole(ctx context.Context, userID string, role models.Role) error {
	m := f.memberByUser(userID)
	m.Roles = append(m.Roles, role)
	return nil
}

func (f *fakeStaffStore) RevokeRole(ctx context.Context, userID string, role models.Role) error {
	m := f.memberByUser(userID)
	kept := m.Roles[:0]
	for _, r := range m.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	m.Roles = kept
	return nil
}

func (f *fakeStaffStore) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func recordEvents(broker *SessionBroker) *[]models.SessionEvent {
	events := &[]models.SessionEvent{}
	broker.Subscribe(func(event models.SessionEvent) {
		*events = append(*events, event)
	})
	return events
}

func TestStaffServiceCreate(t *testing.T) {
	store := newFakeStaffStore()
	svc := NewStaffService(store, store, NewSessionBroker(nil), nil, nil)

	member, err := svc.Create(context.Background(), dto.StaffCreateRequest{
		Email:    " Priya@Institute.IN ",
		Password: "secret123",
		FullName: "Priya Nair",
		BranchID: strPtr(testBranchID),
		Role:     "trainer",
	})
	require.NoError(t, err)

	assert.Equal(t, "priya@institute.in", member.Email)
	assert.Regexp(t, regexp.MustCompile(`^EMP`), member.EmployeeID)
	assert.Equal(t, []models.Role{models.RoleTrainer}, member.Roles)
	require.NotNil(t, member.BranchID)
	assert.Equal(t, testBranchID, *member.BranchID)

	user := store.users["user-new"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.True(t, user.Active)
}

func TestStaffServiceCreateDuplicateEmail(t *testing.T) {
	store := newFakeStaffStore()
	store.createErr = database.ErrUniqueViolation
	svc := NewStaffService(store, store, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.StaffCreateRequest{Email: "a@b.co", Password: "secret123", FullName: "Asha"})
	require.Error(t, err)
	appErr := appErrorOf(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "This email is already registered", appErr.Message)
}

func TestStaffServiceCreateRejectsBranch(t *testing.T) {
	svc := NewStaffService(newFakeStaffStore(), newFakeStaffStore(), nil, nil, nil)
	_, err := svc.Create(context.Background(), dto.StaffCreateRequest{Email: "a@b.co", Password: "secret123", FullName: "Asha", BranchID: strPtr("north")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorOf(err).Status)
}

func TestStaffServiceRoles(t *testing.T) {
	store := newFakeStaffStore()
	store.add("p-admin", "u-admin", models.RoleAdmin)
	store.add("p-trainer", "u-trainer")
	broker := NewSessionBroker(nil)
	events := recordEvents(broker)
	svc := NewStaffService(store, store, broker, nil, nil)
	actor := &models.Principal{UserID: "u-admin", Roles: []models.Role{models.RoleAdmin}}

	member, err := svc.AssignRole(context.Background(), "p-trainer", dto.RoleRequest{Role: "accounts"})
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAccounts}, member.Roles)

	member, err = svc.RevokeRole(context.Background(), "p-trainer", dto.RoleRequest{Role: "accounts"}, actor)
	require.NoError(t, err)
	assert.Empty(t, member.Roles)

	_, err = svc.RevokeRole(context.Background(), "p-admin", dto.RoleRequest{Role: "admin"}, actor)
	require.Error(t, err)
	assert.Equal(t, http.StatusPreconditionFailed, appErrorOf(err).Status)

	_, err = svc.AssignRole(context.Background(), "p-trainer", dto.RoleRequest{Role: "owner"})
	require.Error(t, err)

	require.Len(t, *events, 2)
	for _, event := range *events {
		assert.Equal(t, models.SessionEventRolesChanged, event.Type)
		assert.Equal(t, "u-trainer", event.UserID)
	}
}

func TestStaffServiceDeactivate(t *testing.T) {
	store := newFakeStaffStore()
	store.add("p-admin", "u-admin", models.RoleAdmin)
	store.add("p-trainer", "u-trainer", models.RoleTrainer)
	broker := NewSessionBroker(nil)
	events := recordEvents(broker)
	svc := NewStaffService(store, store, broker, nil, nil)
	actor := &models.Principal{UserID: "u-admin"}

	_, err := svc.Deactivate(context.Background(), "p-admin", actor)
	require.Error(t, err)
	assert.Equal(t, "you cannot deactivate your own account", appErrorOf(err).Message)

	member, err := svc.Deactivate(context.Background(), "p-trainer", actor)
	require.NoError(t, err)
	assert.False(t, member.IsActive)
	assert.False(t, store.users["u-trainer"].Active)
	assert.Equal(t, []string{"u-trainer"}, store.revoked)
	require.Len(t, *events, 1)
	assert.Equal(t, models.SessionEventSignedOut, (*events)[0].Type)

	_, err = svc.Deactivate(context.Background(), "p-trainer", actor)
	require.NoError(t, err)
	assert.Len(t, store.revoked, 1)
}

func TestStaffServiceUpdateReactivates(t *testing.T) {
	store := newFakeStaffStore()
	store.add("p-trainer", "u-trainer")
	store.members["p-trainer"].IsActive = false
	store.users["u-trainer"].Active = false
	broker := NewSessionBroker(nil)
	events := recordEvents(broker)
	svc := NewStaffService(store, store, broker, nil, nil)

	active := true
	member, err := svc.Update(context.Background(), "p-trainer", dto.StaffUpdateRequest{FullName: " Ravi Kumar ", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", member.FullName)
	assert.True(t, member.IsActive)
	assert.True(t, store.users["u-trainer"].Active)
	assert.Empty(t, store.revoked)
	require.Len(t, *events, 1)
	assert.Equal(t, models.SessionEventProfileUpdated, (*events)[0].Type)
}

func TestStaffServiceListSearch(t *testing.T) {
	store := newFakeStaffStore()
	store.add("p1", "u1")
	store.add("p2", "u2")
	store.members["p2"].FullName = "Meera Iyer"
	svc := NewStaffService(store, store, nil, nil, nil)

	items, _, err := svc.List(context.Background(), dto.ListQuery{Search: "meera"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}
