package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// OrganizationIDKey is the context key for the caller's organization
	OrganizationIDKey ctxKey = "organization_id"
	// BranchIDKey is the context key for the caller's branch
	BranchIDKey ctxKey = "branch_id"
	// SkipOrgScopeKey is the context key for skipping the organization scope
	// (platform admin, supplier cross-org queries)
	SkipOrgScopeKey ctxKey = "skip_org_scope"
)

// OrgScope returns a GORM scope that filters by organization.
// This should be applied to all queries for tenant-scoped entities.
// If SkipOrgScopeKey is true in context, returns all records.
func OrgScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skipScope, ok := ctx.Value(SkipOrgScopeKey).(bool); ok && skipScope {
			return db
		}

		orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if organization context missing.
			// This prevents accidental cross-tenant data access.
			return db.Where("1 = 0")
		}
		return db.Where("organization_id = ?", orgID)
	}
}

// WithSkipOrgScope marks the context as exempt from the organization
// scope (platform admin, supplier cross-org queries)
func WithSkipOrgScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, SkipOrgScopeKey, true)
}

// WithOrganization adds the organization ID to context
func WithOrganization(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, OrganizationIDKey, orgID)
}

// WithBranch adds the branch ID to context
func WithBranch(ctx context.Context, branchID uuid.UUID) context.Context {
	return context.WithValue(ctx, BranchIDKey, branchID)
}

// GetOrganizationID extracts the organization ID from context
func GetOrganizationID(ctx context.Context) (uuid.UUID, bool) {
	orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
	return orgID, ok
}

// GetBranchID extracts the branch ID from context
func GetBranchID(ctx context.Context) (uuid.UUID, bool) {
	branchID, ok := ctx.Value(BranchIDKey).(uuid.UUID)
	return branchID, ok
}

// RequireOrganizationID extracts the organization ID from context and fails
// with an explicit error when it is absent.
func RequireOrganizationID(ctx context.Context) (uuid.UUID, error) {
	orgID, ok := GetOrganizationID(ctx)
	if !ok {
		return uuid.Nil, apperror.ErrMissingTenantContext
	}
	return orgID, nil
}
