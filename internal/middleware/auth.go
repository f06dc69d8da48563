package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/institute-erp-api/internal/authz"
	"github.com/noah-isme/institute-erp-api/internal/models"
	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/logger"
	"github.com/noah-isme/institute-erp-api/pkg/response"
)

// Context keys populated by Authenticate.
const (
	ContextClaimsKey    = "claims"
	ContextAuthKey      = "auth_context"
	ContextPrincipalKey = "principal"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type principalResolver interface {
	Current(ctx context.Context, userID string) (*models.AuthContext, error)
}

// Authenticate requires a valid bearer token and resolves the caller's profile and roles.
// Roles are looked up per request so grants and revocations apply without re-issuing tokens.
func Authenticate(tokens tokenValidator, profiles principalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, err)
			return
		}
		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Abort(c, err)
			return
		}
		authCtx, err := profiles.Current(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextAuthKey, authCtx)
		c.Set(ContextPrincipalKey, authCtx.Principal())
		c.Set(logger.UserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authorize lets the request through when the caller may perform action on resource.
func Authorize(action authz.Action, resource authz.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if !authz.Authorize(principal, action, resource) {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "you do not have access to "+string(resource)))
			return
		}
		c.Next()
	}
}

// Principal returns the caller resolved by Authenticate, or nil.
func Principal(c *gin.Context) *models.Principal {
	if v, ok := c.Get(ContextPrincipalKey); ok {
		if p, ok := v.(*models.Principal); ok {
			return p
		}
	}
	return nil
}

// AuthContext returns the caller's profile snapshot, or nil.
func AuthContext(c *gin.Context) *models.AuthContext {
	if v, ok := c.Get(ContextAuthKey); ok {
		if a, ok := v.(*models.AuthContext); ok {
			return a
		}
	}
	return nil
}

// Claims returns the validated access token claims, or nil.
func Claims(c *gin.Context) *models.JWTClaims {
	if v, ok := c.Get(ContextClaimsKey); ok {
		if claims, ok := v.(*models.JWTClaims); ok {
			return claims
		}
	}
	return nil
}
