package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"gorm.io/gorm"
)

type bulkOrderRepository struct {
	db *gorm.DB
}

// NewBulkOrderRepository creates a new bulk order repository
func NewBulkOrderRepository(db *gorm.DB) domainRepo.BulkOrderRepository {
	return &bulkOrderRepository{db: db}
}

func (r *bulkOrderRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

func (r *bulkOrderRepository) Create(ctx context.Context, order *entity.BulkOrder) error {
	return r.conn(ctx).Create(order).Error
}

func (r *bulkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BulkOrder, error) {
	var order entity.BulkOrder
	err := r.conn(ctx).Scopes(OrgScope(ctx)).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *bulkOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.BulkOrder, error) {
	var order entity.BulkOrder
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

// GetWithDetails loads an order with items, status logs and payments
func (r *bulkOrderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.BulkOrder, error) {
	var order entity.BulkOrder
	err := r.conn(ctx).Scopes(OrgScope(ctx)).
		Preload("Items").Preload("Items.Product").
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("StatusLogs.ChangedBy").
		Preload("Payments").
		Preload("SupplierUser").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *bulkOrderRepository) Update(ctx context.Context, order *entity.BulkOrder) error {
	return r.conn(ctx).Save(order).Error
}

func (r *bulkOrderRepository) List(ctx context.Context, params *domainRepo.BulkOrderFilterParams) ([]entity.BulkOrder, int64, error) {
	var orders []entity.BulkOrder
	var total int64

	query := r.conn(ctx).Model(&entity.BulkOrder{}).Scopes(OrgScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.SupplierUserID != nil {
		query = query.Where("supplier_user_id = ?", *params.SupplierUserID)
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
	if params.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+params.Search+"%")
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
		Preload("Items").Preload("Items.Product").Preload("SupplierUser").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *bulkOrderRepository) CreateItems(ctx context.Context, items []entity.BulkOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&items).Error
}

func (r *bulkOrderRepository) UpdateItem(ctx context.Context, item *entity.BulkOrderItem) error {
	return r.conn(ctx).Save(item).Error
}

func (r *bulkOrderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderItem, error) {
	var items []entity.BulkOrderItem
	err := r.conn(ctx).
		Preload("Product").
		Where("bulk_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// CreateStatusLog appends one audit row
func (r *bulkOrderRepository) CreateStatusLog(ctx context.Context, log *entity.BulkOrderStatusLog) error {
	return r.conn(ctx).Create(log).Error
}

func (r *bulkOrderRepository) GetStatusLogs(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderStatusLog, error) {
	var logs []entity.BulkOrderStatusLog
	err := r.conn(ctx).
		Preload("ChangedBy").
		Where("bulk_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *bulkOrderRepository) CreatePayment(ctx context.Context, payment *entity.BulkOrderPayment) error {
	return r.conn(ctx).Create(payment).Error
}

func (r *bulkOrderRepository) GetPayments(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderPayment, error) {
	var payments []entity.BulkOrderPayment
	err := r.conn(ctx).
		Where("bulk_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
