package repository

import (
	"context"

	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"gorm.io/gorm"
)

type stockEntryRepository struct {
	db *gorm.DB
}

// NewStockEntryRepository creates a new stock entry repository
func NewStockEntryRepository(db *gorm.DB) domainRepo.StockEntryRepository {
	return &stockEntryRepository{db: db}
}

func (r *stockEntryRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *stockEntryRepository) Create(ctx context.Context, entry *entity.StockEntry) error {
	return r.conn(ctx).Create(entry).Error
}

func (r *stockEntryRepository) List(ctx context.Context, params *domainRepo.StockEntryFilterParams) ([]entity.StockEntry, int64, error) {
	var entries []entity.StockEntry
	var total int64

	query := r.conn(ctx).Model(&entity.StockEntry{}).Scopes(OrgScope(ctx))

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.BatchID != nil {
		query = query.Where("batch_id = ?", *params.BatchID)
	}
	if params.EntryType != nil {
		query = query.Where("entry_type = ?", *params.EntryType)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Product").
		Order("created_at DESC").
		Find(&entries).Error

	return entries, total, err
}

func (r *stockEntryRepository) GetByReference(ctx context.Context, referenceNumber string) ([]entity.StockEntry, error) {
	var entries []entity.StockEntry
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Where("reference_number = ?", referenceNumber).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
