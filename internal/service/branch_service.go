package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/search"
)

type branchRepository interface {
	List(ctx context.Context) ([]models.Branch, error)
	FindByID(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id string) error
}

var branchSearchFields search.Fields[models.Branch] = func(b models.Branch) []string {
	return []string{b.Name, b.Code}
}

// BranchService manages institute branches.
type BranchService struct {
	repo      branchRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBranchService constructs the branch service.
func NewBranchService(repo branchRepository, validate *validator.Validate, logger *zap.Logger) *BranchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BranchService{repo: repo, validator: validate, logger: logger}
}

// List returns branches matching the query.
func (s *BranchService) List(ctx context.Context, q dto.ListQuery) ([]models.Branch, *models.Pagination, error) {
	branches, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to list branches")
	}
	items, pagination := listPage(branches, q, branchSearchFields)
	return items, pagination, nil
}

// Get returns one branch.
func (s *BranchService) Get(ctx context.Context, id string) (*models.Branch, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "branch")
	}
	return branch, nil
}

// Create stores a new branch with an upper-cased code.
func (s *BranchService) Create(ctx context.Context, req dto.BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid branch payload")
	}
	branch := &models.Branch{}
	applyBranch(branch, req, true)
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, writeError(err, "branch", "create")
	}
	return branch, nil
}

// Update replaces the editable fields of a branch.
func (s *BranchService) Update(ctx context.Context, id string, req dto.BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid branch payload")
	}
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "branch")
	}
	applyBranch(branch, req, branch.IsActive)
	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, writeError(err, "branch", "update")
	}
	return branch, nil
}

// Delete removes a branch.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "branch", "delete")
	}
	return nil
}

func applyBranch(branch *models.Branch, req dto.BranchRequest, active bool) {
	branch.Name = strings.TrimSpace(req.Name)
	branch.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	branch.Address = req.Address
	branch.Phone = req.Phone
	branch.Email = req.Email
	branch.IsActive = boolOr(req.IsActive, active)
}
