package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// GetPOSStats returns today's sales figures and outstanding credit
func (r *analyticsRepository) GetPOSStats(ctx context.Context, branchID *uuid.UUID) (*domainRepo.POSStatsResult, error) {
	stats := &domainRepo.POSStatsResult{}
	startOfDay := time.Now().Truncate(24 * time.Hour)

	base := func() *gorm.DB {
		q := r.conn(ctx).Model(&entity.Sale{}).Scopes(OrgScope(ctx))
		if branchID != nil {
			q = q.Where("branch_id = ?", *branchID)
		}
		return q
	}

	var todayCents int64
	err := base().
		Where("status = ? AND completed_at >= ?", enum.SaleStatusCompleted, startOfDay).
		Select("COALESCE(SUM(total), 0)").
		Scan(&todayCents).Error
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue = float64(todayCents) / 100

	var todayCount int64
	if err := base().
		Where("status = ? AND completed_at >= ?", enum.SaleStatusCompleted, startOfDay).
		Count(&todayCount).Error; err != nil {
		return nil, err
	}
	stats.TodaySalesCount = int(todayCount)

	var pendingCount int64
	if err := base().
		Where("status = ?", enum.SaleStatusPending).
		Count(&pendingCount).Error; err != nil {
		return nil, err
	}
	stats.PendingBillsCount = int(pendingCount)

	var creditCents int64
	err = base().
		Where("status = ? AND credit > 0", enum.SaleStatusCompleted).
		Select("COALESCE(SUM(credit), 0)").
		Scan(&creditCents).Error
	if err != nil {
		return nil, err
	}
	stats.OutstandingCredit = float64(creditCents) / 100

	return stats, nil
}

// GetTopProducts returns top selling products by revenue
func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	if limit <= 0 {
		limit = 5
	}

	var rows []struct {
		ProductID    uuid.UUID
		GenericName  string
		Code         string
		QuantitySold int
		RevenueCents int64
	}

	err := r.conn(ctx).Model(&entity.SaleItem{}).
		Select(`sale_items.product_id,
			products.generic_name,
			products.code,
			COALESCE(SUM(sale_items.quantity), 0) as quantity_sold,
			COALESCE(SUM(sale_items.total), 0) as revenue_cents`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.status = ?", enum.SaleStatusCompleted).
		Scopes(func(db *gorm.DB) *gorm.DB {
			if orgID, ok := GetOrganizationID(ctx); ok {
				return db.Where("sales.organization_id = ?", orgID)
			}
			return db.Where("1 = 0")
		}).
		Group("sale_items.product_id, products.generic_name, products.code").
		Order("revenue_cents DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.TopProductResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domainRepo.TopProductResult{
			ProductID:    row.ProductID,
			ProductName:  row.GenericName,
			ProductCode:  row.Code,
			QuantitySold: row.QuantitySold,
			Revenue:      float64(row.RevenueCents) / 100,
		})
	}
	return results, nil
}

// GetDailySales returns daily sales data for the last N days
func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	var rows []struct {
		Day          time.Time
		RevenueCents int64
		Count        int
	}

	err := r.conn(ctx).Model(&entity.Sale{}).Scopes(OrgScope(ctx)).
		Select(`DATE(completed_at) as day,
			COALESCE(SUM(total), 0) as revenue_cents,
			COUNT(*) as count`).
		Where("status = ? AND completed_at >= ?", enum.SaleStatusCompleted, since).
		Group("DATE(completed_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.DailySalesResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domainRepo.DailySalesResult{
			Date:    row.Day,
			Revenue: float64(row.RevenueCents) / 100,
			Count:   row.Count,
		})
	}
	return results, nil
}

// GetBulkOrderStats returns bulk order aggregates. When supplierUserID is
// set the query switches to the supplier perspective and ignores the
// organization scope.
func (r *analyticsRepository) GetBulkOrderStats(ctx context.Context, supplierUserID *uuid.UUID) (*domainRepo.BulkOrderStatsResult, error) {
	stats := &domainRepo.BulkOrderStatsResult{}

	base := func() *gorm.DB {
		q := r.conn(ctx).Model(&entity.BulkOrder{})
		if supplierUserID != nil {
			return q.Where("supplier_user_id = ?", *supplierUserID)
		}
		return q.Scopes(OrgScope(ctx))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	stats.TotalOrders = int(total)

	var completed int64
	if err := base().
		Where("status = ?", enum.BulkOrderStatusCompleted).
		Count(&completed).Error; err != nil {
		return nil, err
	}
	stats.CompletedOrders = int(completed)

	var terminal int64
	if err := base().
		Where("status IN ?", []enum.BulkOrderStatus{
			enum.BulkOrderStatusCompleted,
			enum.BulkOrderStatusCancelled,
			enum.BulkOrderStatusSupplierRejected,
		}).
		Count(&terminal).Error; err != nil {
		return nil, err
	}
	stats.ActiveOrders = int(total - terminal)

	var valueCents int64
	if err := base().
		Select("COALESCE(SUM(total), 0)").
		Scan(&valueCents).Error; err != nil {
		return nil, err
	}
	stats.TotalValue = float64(valueCents) / 100

	var dueCents int64
	if err := base().
		Where("status NOT IN ?", []enum.BulkOrderStatus{
			enum.BulkOrderStatusCancelled,
			enum.BulkOrderStatusSupplierRejected,
		}).
		Select("COALESCE(SUM(total - amount_paid), 0)").
		Scan(&dueCents).Error; err != nil {
		return nil, err
	}
	if dueCents < 0 {
		dueCents = 0
	}
	stats.OutstandingDue = float64(dueCents) / 100

	return stats, nil
}
