package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.UserRole {
	roleVal, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, ok := roleVal.(enum.UserRole)
	if !ok {
		return ""
	}
	return role
}

// GetOrganizationID extracts the organization ID from the Gin context
func GetOrganizationID(c *gin.Context) uuid.UUID {
	orgVal, exists := c.Get("organization_id")
	if !exists {
		return uuid.Nil
	}
	orgID, ok := orgVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return orgID
}

// GetBranchID extracts the branch ID from the Gin context, if the token
// carries one
func GetBranchID(c *gin.Context) *uuid.UUID {
	branchVal, exists := c.Get("branch_id")
	if !exists {
		return nil
	}
	branchID, ok := branchVal.(uuid.UUID)
	if !ok || branchID == uuid.Nil {
		return nil
	}
	return &branchID
}

// branchIDFromQuery reads an optional branch_id query parameter, falling
// back to the caller's token branch
func branchIDFromQuery(c *gin.Context) *uuid.UUID {
	if branchIDStr := c.Query("branch_id"); branchIDStr != "" {
		if branchID, err := uuid.Parse(branchIDStr); err == nil {
			return &branchID
		}
	}
	return GetBranchID(c)
}
