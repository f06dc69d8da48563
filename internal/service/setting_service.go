package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
)

type settingRepository interface {
	List(ctx context.Context, branchID *string) ([]models.Setting, error)
	Get(ctx context.Context, branchID *string, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) (*models.Setting, error)
	BulkUpsert(ctx context.Context, settings []models.Setting) error
	Delete(ctx context.Context, branchID *string, key string) error
}

// objectSettings lists keys whose value must be a JSON object.
var objectSettings = map[string]string{
	models.SettingKeyInstitute:   "institute name, address and contact details",
	models.SettingKeyReceipt:     "receipt header, footer and terms",
	models.SettingKeyCertificate: "certificate signatories and wording",
}

const maxSettingKeyLength = 100

// SettingService reads and writes keyed JSON settings, globally or per branch.
type SettingService struct {
	repo      settingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingService constructs a SettingService.
func NewSettingService(repo settingRepository, validate *validator.Validate, logger *zap.Logger) *SettingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingService{repo: repo, validator: validate, logger: logger}
}

// List returns every setting of a scope. A nil branch selects global settings.
func (s *SettingService) List(ctx context.Context, branchID *string) ([]models.Setting, error) {
	if err := s.validateBranch(branchID); err != nil {
		return nil, err
	}
	settings, err := s.repo.List(ctx, normalizeBranch(branchID))
	if err != nil {
		return nil, internalError(err, "failed to list settings")
	}
	return settings, nil
}

// Get returns one setting.
func (s *SettingService) Get(ctx context.Context, key string, branchID *string) (*models.Setting, error) {
	key, err := s.normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if err := s.validateBranch(branchID); err != nil {
		return nil, err
	}
	setting, err := s.repo.Get(ctx, normalizeBranch(branchID), key)
	if err != nil {
		return nil, lookupError(err, "setting")
	}
	return setting, nil
}

// Upsert writes one setting value.
func (s *SettingService) Upsert(ctx context.Context, key string, req dto.SettingUpsertRequest) (*models.Setting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid setting payload")
	}
	setting, err := s.buildSetting(key, req.BranchID, models.JSONB(req.Value))
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Upsert(ctx, setting)
	if err != nil {
		return nil, writeError(err, "setting", "save")
	}
	s.logger.Info("setting saved", zap.String("key", stored.Key), zap.Stringp("branch_id", stored.BranchID))
	return stored, nil
}

// Bulk writes several settings of one scope atomically and returns the scope afterwards.
func (s *SettingService) Bulk(ctx context.Context, req dto.SettingBulkRequest) ([]models.Setting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid settings payload")
	}
	settings := make([]models.Setting, 0, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		setting, err := s.buildSetting(item.Key, req.BranchID, models.JSONB(item.Value))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[setting.Key]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate setting key %q", setting.Key))
		}
		seen[setting.Key] = struct{}{}
		settings = append(settings, *setting)
	}
	if err := s.repo.BulkUpsert(ctx, settings); err != nil {
		return nil, writeError(err, "setting", "save")
	}
	s.logger.Info("settings saved", zap.Int("count", len(settings)), zap.Stringp("branch_id", req.BranchID))
	return s.List(ctx, req.BranchID)
}

// Delete removes one setting.
func (s *SettingService) Delete(ctx context.Context, key string, branchID *string) error {
	key, err := s.normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.validateBranch(branchID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, normalizeBranch(branchID), key); err != nil {
		return writeError(err, "setting", "delete")
	}
	return nil
}

func (s *SettingService) buildSetting(key string, branchID *string, value models.JSONB) (*models.Setting, error) {
	key, err := s.normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if err := s.validateBranch(branchID); err != nil {
		return nil, err
	}
	if !value.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("setting %q must be valid JSON", key))
	}
	if _, ok := objectSettings[key]; ok && !value.IsObject() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("setting %q must be a JSON object", key))
	}
	return &models.Setting{BranchID: normalizeBranch(branchID), Key: key, Value: value}, nil
}

func (s *SettingService) normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxSettingKeyLength {
		return "", appErrors.Clone(appErrors.ErrValidation, "setting key is required and must be at most 100 characters")
	}
	return key, nil
}

func (s *SettingService) validateBranch(branchID *string) error {
	branch := normalizeBranch(branchID)
	if branch == nil {
		return nil
	}
	if err := s.validator.Var(*branch, "uuid"); err != nil {
		return validationError(err, "branch_id must be a UUID")
	}
	return nil
}

// normalizeBranch treats an empty branch id as the global scope.
func normalizeBranch(branchID *string) *string {
	if branchID == nil || strings.TrimSpace(*branchID) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*branchID)
	return &trimmed
}
