package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/dto/response"
)

// TenantMiddleware copies the authenticated user's organization and
// branch scope from the validated claims into the request context, where
// repositories pick it up for query scoping. Runs after AuthMiddleware.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgVal, exists := c.Get("organization_id")
		if !exists {
			response.BadRequest(c, "Organization context required")
			c.Abort()
			return
		}

		orgID, ok := orgVal.(uuid.UUID)
		if !ok || orgID == uuid.Nil {
			response.BadRequest(c, "Invalid organization context")
			c.Abort()
			return
		}

		ctx := infraRepo.WithOrganization(c.Request.Context(), orgID)

		if branchVal, ok := c.Get("branch_id"); ok {
			if branchID, ok := branchVal.(uuid.UUID); ok && branchID != uuid.Nil {
				ctx = infraRepo.WithBranch(ctx, branchID)
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetOrganizationID retrieves the organization ID from gin context
func GetOrganizationID(c *gin.Context) uuid.UUID {
	orgVal, exists := c.Get("organization_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := orgVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
