package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type branchService interface {
	List(ctx context.Context, q dto.ListQuery) ([]models.Branch, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, req dto.BranchRequest) (*models.Branch, error)
	Update(ctx context.Context, id string, req dto.BranchRequest) (*models.Branch, error)
	Delete(ctx context.Context, id string) error
}

// BranchHandler administers branches.
type BranchHandler struct {
	branches branchService
}

// NewBranchHandler constructs BranchHandler.
func NewBranchHandler(branches branchService) *BranchHandler {
	return &BranchHandler{branches: branches}
}

// List godoc
// @Summary List branches
// @Tags Branches
// @Produce json
// @Param search query string false "Search by name or code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	branches, pagination, err := h.branches.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, branches, pagination)
}

// Get godoc
// @Summary Get branch
// @Tags Branches
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	branch, err := h.branches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// Create godoc
// @Summary Create branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param payload body dto.BranchRequest true "Branch payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.BranchRequest
	if !bindJSON(c, &req) {
		return
	}
	branch, err := h.branches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, branch)
}

// Update godoc
// @Summary Update branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param id path string true "Branch ID"
// @Param payload body dto.BranchRequest true "Branch payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	var req dto.BranchRequest
	if !bindJSON(c, &req) {
		return
	}
	branch, err := h.branches.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// Delete godoc
// @Summary Delete branch
// @Tags Branches
// @Param id path string true "Branch ID"
// @Success 204
// @Security BearerAuth
// @Router /branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	if err := h.branches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
