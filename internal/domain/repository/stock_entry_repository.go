package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// StockEntryRepository defines the interface for the stock movement trail
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	List(ctx context.Context, params *StockEntryFilterParams) ([]entity.StockEntry, int64, error)
	GetByReference(ctx context.Context, referenceNumber string) ([]entity.StockEntry, error)
}

// StockEntryFilterParams contains filtering parameters for stock entry queries
type StockEntryFilterParams struct {
	Pagination *pagination.PaginationParams
	ProductID  *uuid.UUID
	BranchID   *uuid.UUID
	BatchID    *uuid.UUID
	EntryType  *enum.StockEntryType
	StartDate  *time.Time
	EndDate    *time.Time
}

// POSStatsResult aggregates point-of-sale figures for the dashboard
type POSStatsResult struct {
	TodayRevenue      float64
	TodaySalesCount   int
	PendingBillsCount int
	OutstandingCredit float64
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      float64
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue float64
	Count   int
}

// BulkOrderStatsResult aggregates bulk order figures for one side of the market
type BulkOrderStatsResult struct {
	TotalOrders     int
	ActiveOrders    int
	CompletedOrders int
	TotalValue      float64
	OutstandingDue  float64
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetPOSStats returns today's sales figures and outstanding credit for a branch
	GetPOSStats(ctx context.Context, branchID *uuid.UUID) (*POSStatsResult, error)

	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetBulkOrderStats returns bulk order aggregates; supplierUserID switches
	// to the supplier perspective
	GetBulkOrderStats(ctx context.Context, supplierUserID *uuid.UUID) (*BulkOrderStatsResult, error)
}
