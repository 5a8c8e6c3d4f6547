package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// BulkOrderRepository defines the interface for bulk order data operations
type BulkOrderRepository interface {
	Create(ctx context.Context, order *entity.BulkOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BulkOrder, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.BulkOrder, error)
	// GetWithDetails loads an order with items, status logs and payments
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.BulkOrder, error)
	Update(ctx context.Context, order *entity.BulkOrder) error
	List(ctx context.Context, params *BulkOrderFilterParams) ([]entity.BulkOrder, int64, error)
	CreateItems(ctx context.Context, items []entity.BulkOrderItem) error
	UpdateItem(ctx context.Context, item *entity.BulkOrderItem) error
	GetItems(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderItem, error)
	// CreateStatusLog appends one audit row; callers record exactly one per transition
	CreateStatusLog(ctx context.Context, log *entity.BulkOrderStatusLog) error
	GetStatusLogs(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderStatusLog, error)
	CreatePayment(ctx context.Context, payment *entity.BulkOrderPayment) error
	GetPayments(ctx context.Context, orderID uuid.UUID) ([]entity.BulkOrderPayment, error)
}

// BulkOrderFilterParams contains filtering parameters for bulk order queries
type BulkOrderFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	Status         *enum.BulkOrderStatus
	SupplierUserID *uuid.UUID
	BranchID       *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         string
	SortOrder      string
}
