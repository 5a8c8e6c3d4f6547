package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// OrganizationRepository defines the interface for organization data operations
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *entity.Organization) error

	// GetByID retrieves an organization by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)

	// GetBySlug retrieves an organization by slug
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)

	// Update updates an existing organization
	Update(ctx context.Context, org *entity.Organization) error

	// Delete soft-deletes an organization
	Delete(ctx context.Context, id uuid.UUID) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ListAll retrieves all organizations (platform admin use)
	ListAll(ctx context.Context, params *pagination.PaginationParams) ([]entity.Organization, int64, error)

	// CreateBranch creates a new branch under an organization
	CreateBranch(ctx context.Context, branch *entity.Branch) error

	// GetBranchByID retrieves a branch by ID
	GetBranchByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)

	// ListBranches retrieves the branches of an organization
	ListBranches(ctx context.Context, organizationID uuid.UUID) ([]entity.Branch, error)

	// UpdateBranch updates an existing branch
	UpdateBranch(ctx context.Context, branch *entity.Branch) error
}
