package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"github.com/sangkips/pharmacare-api/pkg/utils"
)

// OrganizationService handles pharmacy organizations and their branches
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganizationInput represents input for creating an organization
type CreateOrganizationInput struct {
	Name    string
	Slug    string
	Address *string
	Phone   *string
	Email   *string
}

// CreateOrganization registers a new pharmacy organization with a default
// main branch.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input *CreateOrganizationInput) (*entity.Organization, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Organization name is required")
	}

	slug := input.Slug
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}

	exists, err := s.orgRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Organization slug already exists")
	}

	org := &entity.Organization{
		Name:    input.Name,
		Slug:    slug,
		Address: input.Address,
		Phone:   input.Phone,
		Email:   input.Email,
		Active:  true,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	branch := &entity.Branch{
		OrganizationID: org.ID,
		Name:           "Main Branch",
		Active:         true,
	}
	if err := s.orgRepo.CreateBranch(ctx, branch); err != nil {
		return nil, err
	}
	org.Branches = []entity.Branch{*branch}

	return org, nil
}

// GetOrganization retrieves an organization by ID
func (s *OrganizationService) GetOrganization(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}
	return org, nil
}

// UpdateOrganizationInput represents input for updating an organization
type UpdateOrganizationInput struct {
	Name    *string
	Address *string
	Phone   *string
	Email   *string
	Active  *bool
}

// UpdateOrganization updates an organization's details
func (s *OrganizationService) UpdateOrganization(ctx context.Context, id uuid.UUID, input *UpdateOrganizationInput) (*entity.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}

	if input.Name != nil && *input.Name != "" {
		org.Name = *input.Name
	}
	if input.Address != nil {
		org.Address = input.Address
	}
	if input.Phone != nil {
		org.Phone = input.Phone
	}
	if input.Email != nil {
		org.Email = input.Email
	}
	if input.Active != nil {
		org.Active = *input.Active
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganizations retrieves all organizations (platform admin use)
func (s *OrganizationService) ListOrganizations(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Organization], error) {
	orgs, total, err := s.orgRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orgs, pag), nil
}

// CreateBranchInput represents input for adding a branch
type CreateBranchInput struct {
	OrganizationID uuid.UUID
	Name           string
	Address        *string
	Phone          *string
}

// CreateBranch adds a branch to an organization
func (s *OrganizationService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	org, err := s.orgRepo.GetByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Branch name is required")
	}

	branch := &entity.Branch{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Address:        input.Address,
		Phone:          input.Phone,
		Active:         true,
	}
	if err := s.orgRepo.CreateBranch(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// ListBranches retrieves an organization's branches
func (s *OrganizationService) ListBranches(ctx context.Context, organizationID uuid.UUID) ([]entity.Branch, error) {
	return s.orgRepo.ListBranches(ctx, organizationID)
}

// UpdateBranchInput represents input for updating a branch
type UpdateBranchInput struct {
	Name    *string
	Address *string
	Phone   *string
	Active  *bool
}

// UpdateBranch updates a branch's details
func (s *OrganizationService) UpdateBranch(ctx context.Context, id uuid.UUID, input *UpdateBranchInput) (*entity.Branch, error) {
	branch, err := s.orgRepo.GetBranchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	if input.Name != nil && *input.Name != "" {
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = input.Address
	}
	if input.Phone != nil {
		branch.Phone = input.Phone
	}
	if input.Active != nil {
		branch.Active = *input.Active
	}

	if err := s.orgRepo.UpdateBranch(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}
