package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/database"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

type staffRepository interface {
	List(ctx context.Context) ([]models.StaffMember, error)
	FindByID(ctx context.Context, id string) (*models.StaffMember, error)
	Update(ctx context.Context, profile *models.StaffProfile) error
}

type staffAccountRepository interface {
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.StaffProfile, roles []models.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	AssignRole(ctx context.Context, userID string, role models.Role) error
	RevokeRole(ctx context.Context, userID string, role models.Role) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

var staffSearchFields search.Fields[models.StaffMember] = func(m models.StaffMember) []string {
	return []string{m.FullName, m.EmployeeID, m.Email}
}

// StaffService provisions and administers staff accounts.
type StaffService struct {
	repo      staffRepository
	accounts  staffAccountRepository
	broker    *SessionBroker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs the staff service.
func NewStaffService(repo staffRepository, accounts staffAccountRepository, broker *SessionBroker, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, accounts: accounts, broker: broker, validator: validate, logger: logger}
}

// List returns staff members with their roles.
func (s *StaffService) List(ctx context.Context, q dto.ListQuery) ([]models.StaffMember, *models.Pagination, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to list staff")
	}
	items, pagination := listPage(members, q, staffSearchFields)
	return items, pagination, nil
}

// Get returns one staff member.
func (s *StaffService) Get(ctx context.Context, id string) (*models.StaffMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member")
	}
	return member, nil
}

// Create provisions a sign-in account, its staff profile and an optional role together.
func (s *StaffService) Create(ctx context.Context, req dto.StaffCreateRequest) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid staff payload")
	}
	branchID, err := s.branchID(req.BranchID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	employeeID, err := newEmployeeID()
	if err != nil {
		return nil, internalError(err, "failed to generate employee id")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &models.User{Email: email, PasswordHash: string(hash), Active: true}
	profile := &models.StaffProfile{
		EmployeeID:  employeeID,
		FullName:    strings.TrimSpace(req.FullName),
		Email:       email,
		Phone:       req.Phone,
		Designation: req.Designation,
		BranchID:    branchID,
		IsActive:    true,
	}
	var roles []models.Role
	if req.Role != "" {
		roles = append(roles, models.Role(req.Role))
	}

	if err := s.accounts.CreateWithProfile(ctx, user, profile, roles); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "This email is already registered")
		}
		return nil, writeError(err, "staff member", "create")
	}
	s.logger.Info("staff member created", zap.String("profile_id", profile.ID), zap.String("employee_id", employeeID))
	return s.Get(ctx, profile.ID)
}

// Update edits a staff profile. Toggling is_active also enables or disables sign-in.
func (s *StaffService) Update(ctx context.Context, id string, req dto.StaffUpdateRequest) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid staff payload")
	}
	branchID, err := s.branchID(req.BranchID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member")
	}

	profile := existing.StaffProfile
	profile.FullName = strings.TrimSpace(req.FullName)
	profile.Phone = req.Phone
	profile.Designation = req.Designation
	profile.BranchID = branchID
	profile.IsActive = boolOr(req.IsActive, existing.IsActive)
	if err := s.repo.Update(ctx, &profile); err != nil {
		return nil, writeError(err, "staff member", "update")
	}
	if profile.IsActive != existing.IsActive {
		if err := s.setAccountActive(ctx, profile.UserID, profile.IsActive); err != nil {
			return nil, err
		}
	}
	s.broker.Publish(models.SessionEventProfileUpdated, profile.UserID)
	return s.Get(ctx, id)
}

// Deactivate disables a staff member and their sign-in. Callers cannot deactivate themselves.
func (s *StaffService) Deactivate(ctx context.Context, id string, actor *models.Principal) (*models.StaffMember, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member")
	}
	if actor != nil && actor.UserID == existing.UserID {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "you cannot deactivate your own account")
	}
	if !existing.IsActive {
		return existing, nil
	}
	profile := existing.StaffProfile
	profile.IsActive = false
	if err := s.repo.Update(ctx, &profile); err != nil {
		return nil, writeError(err, "staff member", "update")
	}
	if err := s.setAccountActive(ctx, profile.UserID, false); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AssignRole grants a role to a staff member.
func (s *StaffService) AssignRole(ctx context.Context, id string, req dto.RoleRequest) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid role")
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member")
	}
	if err := s.accounts.AssignRole(ctx, member.UserID, models.Role(req.Role)); err != nil {
		return nil, writeError(err, "role", "assign")
	}
	s.logger.Info("role assigned", zap.String("user_id", member.UserID), zap.String("role", req.Role))
	s.broker.Publish(models.SessionEventRolesChanged, member.UserID)
	return s.Get(ctx, id)
}

// RevokeRole removes a role. An admin cannot remove their own admin role.
func (s *StaffService) RevokeRole(ctx context.Context, id string, req dto.RoleRequest, actor *models.Principal) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid role")
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member")
	}
	role := models.Role(req.Role)
	if actor != nil && actor.UserID == member.UserID && role == models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "you cannot revoke your own admin role")
	}
	if err := s.accounts.RevokeRole(ctx, member.UserID, role); err != nil {
		return nil, writeError(err, "role", "revoke")
	}
	s.logger.Info("role revoked", zap.String("user_id", member.UserID), zap.String("role", req.Role))
	s.broker.Publish(models.SessionEventRolesChanged, member.UserID)
	return s.Get(ctx, id)
}

func (s *StaffService) setAccountActive(ctx context.Context, userID string, active bool) error {
	if err := s.accounts.SetActive(ctx, userID, active); err != nil {
		return writeError(err, "user", "update")
	}
	if !active {
		if err := s.accounts.RevokeUserRefreshTokens(ctx, userID); err != nil {
			return internalError(err, "failed to revoke sessions")
		}
		s.broker.Publish(models.SessionEventSignedOut, userID)
	}
	return nil
}

func (s *StaffService) branchID(raw *string) (*string, error) {
	branch := normalizeBranch(raw)
	if branch == nil {
		return nil, nil
	}
	if err := s.validator.Var(*branch, "uuid"); err != nil {
		return nil, validationError(err, "branch_id must be a UUID")
	}
	return branch, nil
}
