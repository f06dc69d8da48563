package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/cache"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type profileUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListRoles(ctx context.Context, userID string) ([]models.Role, error)
}

type profileStaffRepository interface {
	FindProfileByUserID(ctx context.Context, userID string) (*models.StaffProfile, error)
	UpdateOwnProfile(ctx context.Context, userID, fullName string, phone, designation *string) error
}

// ProfileService resolves the signed-in user's profile and roles after the token is validated.
type ProfileService struct {
	users     profileUserRepository
	staff     profileStaffRepository
	cache     *CacheService
	broker    *SessionBroker
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs the service and subscribes it to session events so
// cached snapshots are dropped when roles, passwords or sessions change.
func NewProfileService(users profileUserRepository, staff profileStaffRepository, cacheSvc *CacheService, broker *SessionBroker, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProfileService{users: users, staff: staff, cache: cacheSvc, broker: broker, ttl: ttl, validator: validate, logger: logger}
	if broker != nil {
		broker.Subscribe(func(event models.SessionEvent) {
			s.Invalidate(context.Background(), event.UserID)
		})
	}
	return s
}

func profileCacheKey(userID string) string {
	return cache.Key("profile", userID)
}

// Current returns the user, staff profile and roles of userID. Profile and role
// lookups that fail are logged and yield an empty profile or role set.
func (s *ProfileService) Current(ctx context.Context, userID string) (*models.AuthContext, error) {
	var cached models.AuthContext
	if s.cache.Get(ctx, profileCacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user no longer exists")
		}
		return nil, internalError(err, "failed to load user")
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	authCtx := &models.AuthContext{
		User:  models.UserInfo{ID: user.ID, Email: user.Email},
		Roles: []models.Role{},
	}
	degraded := false

	profile, err := s.staff.FindProfileByUserID(ctx, userID)
	switch {
	case err == nil:
		authCtx.Profile = profile
		authCtx.User.FullName = profile.FullName
	case errors.Is(err, sql.ErrNoRows):
	default:
		degraded = true
		s.logger.Warn("failed to load staff profile", zap.String("user_id", userID), zap.Error(err))
	}

	roles, err := s.users.ListRoles(ctx, userID)
	if err != nil {
		degraded = true
		s.logger.Warn("failed to load roles", zap.String("user_id", userID), zap.Error(err))
	} else if len(roles) > 0 {
		authCtx.Roles = roles
	}
	authCtx.IsAdmin = authCtx.Principal().IsAdmin()

	if !degraded {
		s.cache.Set(ctx, profileCacheKey(userID), authCtx, s.ttl)
	}
	return authCtx, nil
}

// Update edits the caller's own name, phone and designation.
func (s *ProfileService) Update(ctx context.Context, userID string, req dto.ProfileUpdateRequest) (*models.AuthContext, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid profile payload")
	}
	if err := s.staff.UpdateOwnProfile(ctx, userID, strings.TrimSpace(req.FullName), req.Phone, req.Designation); err != nil {
		return nil, writeError(err, "profile", "update")
	}
	s.broker.Publish(models.SessionEventProfileUpdated, userID)
	s.Invalidate(ctx, userID)
	return s.Current(ctx, userID)
}

// Invalidate drops the cached snapshot of userID.
func (s *ProfileService) Invalidate(ctx context.Context, userID string) {
	s.cache.Delete(ctx, profileCacheKey(userID))
}
