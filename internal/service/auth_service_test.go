package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
)

type fakeAuthRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	profiles  map[string]*models.StaffProfile
	tokens    map[string]*models.RefreshToken
	audits    []models.AuditLog
	passwords int
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:    map[string]*models.User{},
		profiles: map[string]*models.StaffProfile{},
		tokens:   map[string]*models.RefreshToken{},
	}
}

func (r *fakeAuthRepo) addUser(t *testing.T, id, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	r.users[id] = &models.User{ID: id, Email: email, PasswordHash: string(hash), Active: active}
}

func (r *fakeAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *fakeAuthRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.StaffProfile, roles []models.Role) error {
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return database.ErrUniqueViolation
	}
	user.ID = "user-" + user.Email
	profile.UserID = user.ID
	r.users[user.ID] = user
	r.profiles[user.ID] = profile
	return nil
}

func (r *fakeAuthRepo) FindProfileByUserID(ctx context.Context, userID string) (*models.StaffProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (r *fakeAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	r.users[id].LastLogin = &ts
	return nil
}

func (r *fakeAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	r.users[id].PasswordHash = passwordHash
	r.passwords++
	return nil
}

func (r *fakeAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	now := time.Now()
	for _, tok := range r.tokens {
		if tok.UserID == userID && tok.RevokedAt == nil {
			tok.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeAuthRepo) FindRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	tok, ok := r.tokens[tokenHash]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return tok, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, tok := range r.tokens {
		if tok.ID == id {
			tok.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (r *fakeAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, *log)
	return nil
}

func newTestAuthService(repo *fakeAuthRepo, broker *SessionBroker) *AuthService {
	return NewAuthService(repo, repo, broker, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "institute-erp-test",
	})
}

func TestAuthServiceSignIn(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(t, "u1", "admin@institute.in", "password123", true)
	repo.profiles["u1"] = &models.StaffProfile{ID: "p1", UserID: "u1", FullName: "Anil Kapoor"}
	broker := NewSessionBroker(nil)
	events := recordEvents(broker)
	svc := newTestAuthService(repo, broker)

	resp, err := svc.SignIn(context.Background(), models.LoginRequest{Email: "admin@institute.in", Password: "password123", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, "Anil Kapoor", resp.User.FullName)
	assert.NotNil(t, repo.users["u1"].LastLogin)
	require.Len(t, repo.tokens, 1)
	require.Len(t, *events, 1)
	assert.Equal(t, models.SessionEventSignedIn, (*events)[0].Type)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "institute-erp-test", claims.Issuer)
}

func TestAuthServiceSignInFailures(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(t, "u1", "admin@institute.in", "password123", true)
	repo.addUser(t, "u2", "old@institute.in", "password123", false)
	svc := newTestAuthService(repo, nil)

	_, err := svc.SignIn(context.Background(), models.LoginRequest{Email: "admin@institute.in", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrorOf(err).Status)

	_, err = svc.SignIn(context.Background(), models.LoginRequest{Email: "nobody@institute.in", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", appErrorOf(err).Code)

	_, err = svc.SignIn(context.Background(), models.LoginRequest{Email: "old@institute.in", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, "account is inactive", appErrorOf(err).Message)
	assert.Empty(t, repo.tokens)
}

func TestAuthServiceSignUp(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := newTestAuthService(repo, nil)

	info, err := svc.SignUp(context.Background(), models.SignUpRequest{FullName: "Kavya Shah", Email: "Kavya@Institute.in", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "kavya@institute.in", info.Email)
	assert.Equal(t, "Kavya Shah", info.FullName)
	assert.True(t, strings.HasPrefix(repo.profiles[info.ID].EmployeeID, "EMP"))

	_, err = svc.SignUp(context.Background(), models.SignUpRequest{FullName: "Kavya Shah", Email: "kavya@institute.in", Password: "secret1", ConfirmPassword: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "This email is already registered", appErrorOf(err).Message)

	_, err = svc.SignUp(context.Background(), models.SignUpRequest{FullName: "X Y", Email: "xy@institute.in", Password: "secret1", ConfirmPassword: "secret2"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorOf(err).Status)
}

func TestAuthServiceRefreshRotates(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(t, "u1", "admin@institute.in", "password123", true)
	svc := newTestAuthService(repo, nil)

	login, err := svc.SignIn(context.Background(), models.LoginRequest{Email: "admin@institute.in", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, "refresh token is expired or revoked", appErrorOf(err).Message)

	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "unknown"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrorOf(err).Status)
}

func TestAuthServiceSignOut(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(t, "u1", "admin@institute.in", "password123", true)
	repo.addUser(t, "u2", "trainer@institute.in", "password123", true)
	svc := newTestAuthService(repo, nil)

	login, err := svc.SignIn(context.Background(), models.LoginRequest{Email: "admin@institute.in", Password: "password123"})
	require.NoError(t, err)

	err = svc.SignOut(context.Background(), "u2", login.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrorOf(err).Status)

	require.NoError(t, svc.SignOut(context.Background(), "u1", login.RefreshToken, "", ""))
	for _, tok := range repo.tokens {
		assert.NotNil(t, tok.RevokedAt)
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(t, "u1", "admin@institute.in", "password123", true)
	broker := NewSessionBroker(nil)
	events := recordEvents(broker)
	svc := newTestAuthService(repo, broker)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpass1", ConfirmPassword: "newpass1"})
	require.Error(t, err)
	assert.Equal(t, "current password is incorrect", appErrorOf(err).Message)

	require.NoError(t, svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpass1", ConfirmPassword: "newpass1"}))
	assert.Equal(t, 1, repo.passwords)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("newpass1")))
	require.Len(t, *events, 1)
	assert.Equal(t, models.SessionEventPasswordChanged, (*events)[0].Type)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser(t, "u1", "admin@institute.in", "password123", true)
	issuer := newTestAuthService(repo, nil)
	login, err := issuer.SignIn(context.Background(), models.LoginRequest{Email: "admin@institute.in", Password: "password123"})
	require.NoError(t, err)

	other := NewAuthService(repo, repo, nil, nil, nil, AuthConfig{AccessTokenSecret: "other-secret", AccessTokenExpiry: time.Minute})
	_, err = other.ValidateToken(login.AccessToken)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrorOf(err).Status)
}
