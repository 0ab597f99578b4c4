package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/obralink/backend/internal/infrastructure/logger"
)

// Context keys and headers for organization scoping
const (
	OrganizationIDKey     = "organization_id"
	MemberIDKey           = "member_id"
	OrganizationHeaderKey = "X-Organization-ID"
	MemberHeaderKey       = "X-Member-ID"
)

// OrganizationConfig holds configuration for the organization middleware
type OrganizationConfig struct {
	// SkipPaths are paths that don't require organization context
	SkipPaths []string
	// Required determines if organization context is mandatory
	Required bool
}

// DefaultOrganizationConfig returns default organization middleware configuration
func DefaultOrganizationConfig() OrganizationConfig {
	return OrganizationConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:  true,
	}
}

// OrganizationMiddleware extracts the organization and acting member from the
// request headers and stores them in both the gin context and the request
// context. The gateway in front of this service authenticates the caller and
// injects the headers.
func OrganizationMiddleware() gin.HandlerFunc {
	return OrganizationMiddlewareWithConfig(DefaultOrganizationConfig())
}

// OrganizationMiddlewareWithConfig returns organization middleware with custom configuration
func OrganizationMiddlewareWithConfig(cfg OrganizationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		organizationID := c.GetHeader(OrganizationHeaderKey)
		if organizationID == "" && cfg.Required {
			respondUnauthorized(c, "Organization identification required")
			return
		}

		if organizationID != "" {
			if _, err := uuid.Parse(organizationID); err != nil {
				respondUnauthorized(c, "Invalid organization ID format")
				return
			}

			c.Set(OrganizationIDKey, organizationID)

			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, log = logger.WithOrganizationID(ctx, log, organizationID)

			if memberID := c.GetHeader(MemberHeaderKey); memberID != "" {
				if _, err := uuid.Parse(memberID); err != nil {
					respondUnauthorized(c, "Invalid member ID format")
					return
				}
				c.Set(MemberIDKey, memberID)
				ctx, _ = logger.WithMemberID(ctx, log, memberID)
			}

			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetOrganizationID retrieves the organization ID from gin.Context
func GetOrganizationID(c *gin.Context) string {
	if organizationID, exists := c.Get(OrganizationIDKey); exists {
		if oid, ok := organizationID.(string); ok {
			return oid
		}
	}
	return ""
}

// GetOrganizationUUID retrieves the organization ID as UUID from gin.Context
func GetOrganizationUUID(c *gin.Context) (uuid.UUID, error) {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(organizationID)
}

// GetMemberID retrieves the acting member ID from gin.Context
func GetMemberID(c *gin.Context) string {
	if memberID, exists := c.Get(MemberIDKey); exists {
		if mid, ok := memberID.(string); ok {
			return mid
		}
	}
	return ""
}

// GetMemberUUID retrieves the acting member ID as UUID from gin.Context
func GetMemberUUID(c *gin.Context) (uuid.UUID, error) {
	memberID := GetMemberID(c)
	if memberID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(memberID)
}
