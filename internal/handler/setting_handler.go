package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type settingService interface {
	List(ctx context.Context, branchID *string) ([]models.Setting, error)
	Get(ctx context.Context, key string, branchID *string) (*models.Setting, error)
	Upsert(ctx context.Context, key string, req dto.SettingUpsertRequest) (*models.Setting, error)
	Bulk(ctx context.Context, req dto.SettingBulkRequest) ([]models.Setting, error)
	Delete(ctx context.Context, key string, branchID *string) error
}

// SettingHandler reads and writes institute settings. Omitting branch_id selects the
// global scope.
type SettingHandler struct {
	settings settingService
}

// NewSettingHandler constructs SettingHandler.
func NewSettingHandler(settings settingService) *SettingHandler {
	return &SettingHandler{settings: settings}
}

// List godoc
// @Summary List settings
// @Tags Settings
// @Produce json
// @Param branch_id query string false "Branch scope"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settings.List(c.Request.Context(), optionalQuery(c, "branch_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// Get godoc
// @Summary Get setting
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Param branch_id query string false "Branch scope"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /settings/{key} [get]
func (h *SettingHandler) Get(c *gin.Context) {
	setting, err := h.settings.Get(c.Request.Context(), c.Param("key"), optionalQuery(c, "branch_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, setting)
}

// Upsert godoc
// @Summary Save setting
// @Description institute, receipt and certificate must be JSON objects
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param payload body dto.SettingUpsertRequest true "Value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /settings/{key} [put]
func (h *SettingHandler) Upsert(c *gin.Context) {
	var req dto.SettingUpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	setting, err := h.settings.Upsert(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, setting)
}

// Bulk godoc
// @Summary Save several settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.SettingBulkRequest true "Values"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingHandler) Bulk(c *gin.Context) {
	var req dto.SettingBulkRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.settings.Bulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// Delete godoc
// @Summary Delete setting
// @Tags Settings
// @Param key path string true "Setting key"
// @Param branch_id query string false "Branch scope"
// @Success 204
// @Security BearerAuth
// @Router /settings/{key} [delete]
func (h *SettingHandler) Delete(c *gin.Context) {
	if err := h.settings.Delete(c.Request.Context(), c.Param("key"), optionalQuery(c, "branch_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
