package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/middleware"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/internal/navigation"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type profileService interface {
	Current(ctx context.Context, userID string) (*models.AuthContext, error)
	Update(ctx context.Context, userID string, req dto.ProfileUpdateRequest) (*models.AuthContext, error)
}

// ProfileHandler serves the signed-in user's snapshot and menu.
type ProfileHandler struct {
	profiles           profileService
	emptyRolesFullMenu bool
}

// NewProfileHandler constructs ProfileHandler. emptyRolesFullMenu controls what a user
// without any role sees in the menu.
func NewProfileHandler(profiles profileService, emptyRolesFullMenu bool) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, emptyRolesFullMenu: emptyRolesFullMenu}
}

// Me godoc
// @Summary Current user
// @Description User, staff profile and roles of the caller
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	if authCtx := middleware.AuthContext(c); authCtx != nil {
		response.OK(c, authCtx)
		return
	}
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	authCtx, err := h.profiles.Current(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, authCtx)
}

// Update godoc
// @Summary Update own profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.ProfileUpdateRequest true "Profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req dto.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	authCtx, err := h.profiles.Update(c.Request.Context(), principal.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, authCtx)
}

// Navigation godoc
// @Summary Menu of the caller
// @Description Menu items visible to the caller's roles
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /navigation [get]
func (h *ProfileHandler) Navigation(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	response.OK(c, navigation.Visible(navigation.Menu, principal.Roles, h.emptyRolesFullMenu))
}
