package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
)

// DashboardService aggregates point-of-sale and bulk order figures
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// POSDashboard bundles the figures shown on the point-of-sale screen
type POSDashboard struct {
	TodayRevenue      float64                       `json:"today_revenue"`
	TodaySalesCount   int                           `json:"today_sales_count"`
	PendingBillsCount int                           `json:"pending_bills_count"`
	OutstandingCredit float64                       `json:"outstanding_credit"`
	TopProducts       []repository.TopProductResult `json:"top_products"`
	DailySales        []repository.DailySalesResult `json:"daily_sales"`
}

// GetPOSDashboard returns today's figures, the top sellers and the daily
// revenue series for the last week.
func (s *DashboardService) GetPOSDashboard(ctx context.Context, branchID *uuid.UUID) (*POSDashboard, error) {
	stats, err := s.analyticsRepo.GetPOSStats(ctx, branchID)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.analyticsRepo.GetTopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}

	dailySales, err := s.analyticsRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}

	return &POSDashboard{
		TodayRevenue:      stats.TodayRevenue,
		TodaySalesCount:   stats.TodaySalesCount,
		PendingBillsCount: stats.PendingBillsCount,
		OutstandingCredit: stats.OutstandingCredit,
		TopProducts:       topProducts,
		DailySales:        dailySales,
	}, nil
}

// GetBulkOrderDashboard returns bulk order aggregates. Suppliers see
// figures across buyer organizations; buyers see their own orders.
func (s *DashboardService) GetBulkOrderDashboard(ctx context.Context, supplierUserID *uuid.UUID) (*repository.BulkOrderStatsResult, error) {
	return s.analyticsRepo.GetBulkOrderStats(ctx, supplierUserID)
}
