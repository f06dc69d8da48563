package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/document"
	"github.com/noah-isme/institute-erp-api/internal/dto"
	"github.com/noah-isme/institute-erp-api/internal/middleware"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

// principalFromContext returns the resolved caller or answers 401.
func principalFromContext(c *gin.Context) (*models.Principal, bool) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return principal, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return false
	}
	return true
}

// listQuery reads search and paging parameters. limit is accepted as an alias of page_size.
func listQuery(c *gin.Context) (dto.ListQuery, bool) {
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return q, false
	}
	q.Search = strings.TrimSpace(q.Search)
	if q.PageSize == 0 {
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive number"))
				return q, false
			}
			q.PageSize = limit
		}
	}
	if q.Page < 0 || q.Page > dto.MaxPage {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("page must be between 1 and %d", dto.MaxPage)))
		return q, false
	}
	if q.PageSize < 0 || q.PageSize > dto.MaxPageSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("page size must be between 1 and %d", dto.MaxPageSize)))
		return q, false
	}
	return q, true
}

// optionalQuery returns nil for an absent or blank query parameter.
func optionalQuery(c *gin.Context, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

// writeCached answers with the cache_hit flag and processing time in meta.
func writeCached(c *gin.Context, data interface{}, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "processing_time_ms", time.Since(start).Milliseconds())
	response.JSON(c, http.StatusOK, data, nil, middleware.ExtractMeta(c))
}

// writeDocument sends a rendered document. HTML opens in the browser for printing.
func writeDocument(c *gin.Context, doc *document.Document) {
	inline := strings.HasPrefix(doc.ContentType, "text/html")
	response.Attachment(c, doc.FileName, doc.ContentType, doc.Body, inline)
}
