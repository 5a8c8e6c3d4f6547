package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"gorm.io/gorm"
)

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) domainRepo.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *organizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	return r.conn(ctx).Create(org).Error
}

func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	var org entity.Organization
	err := r.conn(ctx).Preload("Branches").First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	var org entity.Organization
	err := r.conn(ctx).Preload("Branches").First(&org, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &org, err
}

func (r *organizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	return r.conn(ctx).Save(org).Error
}

func (r *organizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&entity.Organization{}, "id = ?", id).Error
}

func (r *organizationRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&entity.Organization{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *organizationRepository) ListAll(ctx context.Context, params *pagination.PaginationParams) ([]entity.Organization, int64, error) {
	var orgs []entity.Organization
	var total int64

	query := r.conn(ctx).Model(&entity.Organization{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Branches").
		Order("created_at DESC").
		Find(&orgs).Error

	return orgs, total, err
}

func (r *organizationRepository) CreateBranch(ctx context.Context, branch *entity.Branch) error {
	return r.conn(ctx).Create(branch).Error
}

func (r *organizationRepository) GetBranchByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	var branch entity.Branch
	err := r.conn(ctx).Scopes(OrgScope(ctx)).First(&branch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &branch, err
}

func (r *organizationRepository) ListBranches(ctx context.Context, organizationID uuid.UUID) ([]entity.Branch, error) {
	var branches []entity.Branch
	err := r.conn(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&branches).Error
	return branches, err
}

func (r *organizationRepository) UpdateBranch(ctx context.Context, branch *entity.Branch) error {
	return r.conn(ctx).Save(branch).Error
}
