package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"gorm.io/gorm"
)

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *gorm.DB) domainRepo.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *batchRepository) Create(ctx context.Context, batch *entity.Batch) error {
	return r.conn(ctx).Create(batch).Error
}

func (r *batchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Batch, error) {
	var batch entity.Batch
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Preload("Product").Preload("SupplierUser").Preload("CustomSupplier").
		First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &batch, err
}

// GetByIDs retrieves multiple batches by their IDs in a single query
func (r *batchRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Batch, error) {
	if len(ids) == 0 {
		return []entity.Batch{}, nil
	}
	var batches []entity.Batch
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Where("id IN ?", ids).
		Find(&batches).Error
	return batches, err
}

func (r *batchRepository) Update(ctx context.Context, batch *entity.Batch) error {
	return r.conn(ctx).Save(batch).Error
}

func (r *batchRepository) List(ctx context.Context, params *domainRepo.BatchFilterParams) ([]entity.Batch, int64, error) {
	var batches []entity.Batch
	var total int64

	query := r.conn(ctx).Model(&entity.Batch{}).Scopes(OrgScope(ctx))

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.SupplierUserID != nil {
		query = query.Where("supplier_user_id = ?", *params.SupplierUserID)
	}
	if !params.IncludeEmpty {
		query = query.Where("quantity > 0")
	}
	if params.Search != "" {
		query = query.Where("batch_number ILIKE ?", "%"+params.Search+"%")
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
		Preload("Product").Preload("SupplierUser").Preload("CustomSupplier").
		Order(sortBy + " " + sortOrder).
		Find(&batches).Error

	return batches, total, err
}

// ListAllocatable returns active, non-empty batches in first-expiry-first-out
// order. Batches without an expiry date sort last.
func (r *batchRepository) ListAllocatable(ctx context.Context, productID, branchID uuid.UUID) ([]entity.Batch, error) {
	var batches []entity.Batch
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Where("product_id = ? AND branch_id = ? AND quantity > 0 AND is_active = ?", productID, branchID, true).
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		Find(&batches).Error
	return batches, err
}

// ListRestorable returns the same batches ordered by latest expiry first
func (r *batchRepository) ListRestorable(ctx context.Context, productID, branchID uuid.UUID) ([]entity.Batch, error) {
	var batches []entity.Batch
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Where("product_id = ? AND branch_id = ? AND is_active = ?", productID, branchID, true).
		Order("expiry_date DESC NULLS FIRST, created_at DESC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepository) TotalAvailable(ctx context.Context, productID, branchID uuid.UUID) (int, error) {
	var total int64
	err := r.conn(ctx).Model(&entity.Batch{}).Scopes(OrgScope(ctx)).
		Where("product_id = ? AND branch_id = ? AND is_active = ?", productID, branchID, true).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

// AtomicReduceQuantity decrements stock only if the batch holds enough.
// Uses: UPDATE batches SET quantity = quantity - amount WHERE id = ? AND quantity >= amount
func (r *batchRepository) AtomicReduceQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := r.conn(ctx).Model(&entity.Batch{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}

	// If no rows were affected, insufficient stock
	return result.RowsAffected > 0, nil
}

// IncrementQuantity adds stock back to a batch
func (r *batchRepository) IncrementQuantity(ctx context.Context, id uuid.UUID, amount int) error {
	return r.conn(ctx).Model(&entity.Batch{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", amount)).Error
}

func (r *batchRepository) ListExpiring(ctx context.Context, branchID *uuid.UUID, before time.Time) ([]entity.Batch, error) {
	query := r.conn(ctx).Scopes(OrgScope(ctx)).
		Where("quantity > 0 AND is_active = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", true, before)
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}
	var batches []entity.Batch
	err := query.Preload("Product").Order("expiry_date ASC").Find(&batches).Error
	return batches, err
}

type customSupplierRepository struct {
	db *gorm.DB
}

// NewCustomSupplierRepository creates a new custom supplier repository
func NewCustomSupplierRepository(db *gorm.DB) domainRepo.CustomSupplierRepository {
	return &customSupplierRepository{db: db}
}

func (r *customSupplierRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *customSupplierRepository) Create(ctx context.Context, supplier *entity.CustomSupplier) error {
	return r.conn(ctx).Create(supplier).Error
}

func (r *customSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CustomSupplier, error) {
	var supplier entity.CustomSupplier
	err := r.conn(ctx).Scopes(OrgScope(ctx)).First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &supplier, err
}

func (r *customSupplierRepository) Update(ctx context.Context, supplier *entity.CustomSupplier) error {
	return r.conn(ctx).Save(supplier).Error
}

func (r *customSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Scopes(OrgScope(ctx)).Delete(&entity.CustomSupplier{}, "id = ?", id).Error
}

func (r *customSupplierRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.CustomSupplier, int64, error) {
	var suppliers []entity.CustomSupplier
	var total int64

	query := r.conn(ctx).Model(&entity.CustomSupplier{}).Scopes(OrgScope(ctx))
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&suppliers).Error

	return suppliers, total, err
}
