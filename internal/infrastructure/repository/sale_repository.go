package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.conn(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.conn(ctx).Scopes(OrgScope(ctx)).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetBySaleNumber(ctx context.Context, saleNumber string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Preload("Items").Preload("Items.Product").Preload("Payments").Preload("Patient").
		First(&sale, "sale_number = ?", saleNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

// GetWithDetails loads a sale with its items, payments and patient
func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Preload("Items").Preload("Items.Product").Preload("Payments").Preload("Patient").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.conn(ctx).Save(sale).Error
}

// Delete hard-deletes a sale together with its items and payments
func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	conn := r.conn(ctx)
	if err := conn.Unscoped().Delete(&entity.SaleItem{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	if err := conn.Unscoped().Delete(&entity.Payment{}, "sale_id = ?", id).Error; err != nil {
		return err
	}
	return conn.Unscoped().Delete(&entity.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.conn(ctx).Model(&entity.Sale{}).Scopes(OrgScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}
	if params.OnlyCredit {
		query = query.Where("credit > 0")
	}
	if params.Search != "" {
		query = query.Where("sale_number ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").Preload("Items.Product").Preload("Payments").Preload("Patient").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

// ListPending returns pending sales (saved bills) for a branch
func (r *saleRepository) ListPending(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.conn(ctx).Model(&entity.Sale{}).Scopes(OrgScope(ctx)).
		Where("status = ?", enum.SaleStatusPending)
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").Preload("Items.Product").Preload("Patient").
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&items).Error
}

func (r *saleRepository) DeleteItemsBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return r.conn(ctx).Unscoped().Delete(&entity.SaleItem{}, "sale_id = ?", saleID).Error
}

func (r *saleRepository) CreatePayment(ctx context.Context, payment *entity.Payment) error {
	return r.conn(ctx).Create(payment).Error
}
