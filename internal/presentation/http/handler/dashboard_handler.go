package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/application/service"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetPOSStats handles getting point-of-sale dashboard figures
func (h *DashboardHandler) GetPOSStats(c *gin.Context) {
	stats, err := h.dashboardService.GetPOSDashboard(c.Request.Context(), branchIDFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// GetBulkOrderStats handles getting bulk order dashboard figures.
// Suppliers see the orders placed with them; buyers see their own.
func (h *DashboardHandler) GetBulkOrderStats(c *gin.Context) {
	var supplierUserID *uuid.UUID
	if GetUserRole(c).IsSupplier() {
		supplierUserID = GetUserID(c)
	}

	stats, err := h.dashboardService.GetBulkOrderDashboard(c.Request.Context(), supplierUserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bulk order stats retrieved successfully", stats)
}
