package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

type batchService interface {
	List(ctx context.Context, q dto.ListQuery) ([]models.BatchDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.BatchDetail, error)
	Trainers(ctx context.Context) ([]models.StaffProfile, error)
	Create(ctx context.Context, req dto.BatchRequest) (*models.BatchDetail, error)
	Update(ctx context.Context, id string, req dto.BatchRequest) (*models.BatchDetail, error)
	Delete(ctx context.Context, id string) error
}

// BatchHandler exposes batches with their course and trainer names.
type BatchHandler struct {
	batches batchService
}

// NewBatchHandler constructs BatchHandler.
func NewBatchHandler(batches batchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// List godoc
// @Summary List batches
// @Tags Batches
// @Produce json
// @Param search query string false "Search by name or code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	batches, pagination, err := h.batches.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, batches, pagination)
}

// Get godoc
// @Summary Get batch
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.batches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, batch)
}

// Trainers godoc
// @Summary Trainers available for batches
// @Tags Batches
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches/trainers [get]
func (h *BatchHandler) Trainers(c *gin.Context) {
	trainers, err := h.batches.Trainers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, trainers)
}

// Create godoc
// @Summary Create batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body dto.BatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	batch, err := h.batches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// Update godoc
// @Summary Update batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.BatchRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /batches/{id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	var req dto.BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	batch, err := h.batches.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, batch)
}

// Delete godoc
// @Summary Delete batch
// @Tags Batches
// @Param id path string true "Batch ID"
// @Success 204
// @Security BearerAuth
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.batches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
