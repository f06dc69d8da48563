package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type staffService interface {
	List(ctx context.Context, q dto.ListQuery) ([]models.StaffMember, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.StaffMember, error)
	Create(ctx context.Context, req dto.StaffCreateRequest) (*models.StaffMember, error)
	Update(ctx context.Context, id string, req dto.StaffUpdateRequest) (*models.StaffMember, error)
	Deactivate(ctx context.Context, id string, actor *models.Principal) (*models.StaffMember, error)
	AssignRole(ctx context.Context, id string, req dto.RoleRequest) (*models.StaffMember, error)
	RevokeRole(ctx context.Context, id string, req dto.RoleRequest, actor *models.Principal) (*models.StaffMember, error)
}

// StaffHandler administers staff accounts and their roles.
type StaffHandler struct {
	staff staffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff staffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List godoc
// @Summary List staff
// @Tags Staff
// @Produce json
// @Param search query string false "Search by name, employee id or email"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	members, pagination, err := h.staff.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, members, pagination)
}

// Get godoc
// @Summary Get staff member
// @Tags Staff
// @Produce json
// @Param id path string true "Staff profile ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	member, err := h.staff.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, member)
}

// Create godoc
// @Summary Create staff account
// @Description Creates the sign-in account, staff profile and optional role together
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.StaffCreateRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.StaffCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.staff.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff profile ID"
// @Param payload body dto.StaffUpdateRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	var req dto.StaffUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.staff.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, member)
}

// Deactivate godoc
// @Summary Deactivate staff member
// @Description Disables sign-in and revokes refresh tokens
// @Tags Staff
// @Produce json
// @Param id path string true "Staff profile ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id} [delete]
func (h *StaffHandler) Deactivate(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	member, err := h.staff.Deactivate(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, member)
}

// AssignRole godoc
// @Summary Grant role
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff profile ID"
// @Param payload body dto.RoleRequest true "Role"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id}/roles [post]
func (h *StaffHandler) AssignRole(c *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.staff.AssignRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, member)
}

// RevokeRole godoc
// @Summary Revoke role
// @Tags Staff
// @Produce json
// @Param id path string true "Staff profile ID"
// @Param role path string true "Role"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /staff/{id}/roles/{role} [delete]
func (h *StaffHandler) RevokeRole(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	req := dto.RoleRequest{Role: c.Param("role")}
	member, err := h.staff.RevokeRole(c.Request.Context(), c.Param("id"), req, principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, member)
}
