package dto

// Paging bounds of list endpoints.
const (
	MaxPage     = 100000
	MaxPageSize = 200
)

// ListQuery carries the free-text search and optional paging of list endpoints.
type ListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,min=1,max=100000"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=200"`
}

// ReasonRequest is the body of void, refund and revoke operations.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}
