package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/application/service"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// BulkOrderHandler handles supplier bulk order HTTP requests
type BulkOrderHandler struct {
	bulkOrderService *service.BulkOrderService
}

// NewBulkOrderHandler creates a new bulk order handler
func NewBulkOrderHandler(bulkOrderService *service.BulkOrderService) *BulkOrderHandler {
	return &BulkOrderHandler{bulkOrderService: bulkOrderService}
}

// Create handles submitting a new bulk order to a supplier
func (h *BulkOrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		BranchID             *uuid.UUID `json:"branch_id"`
		SupplierUserID       uuid.UUID  `json:"supplier_user_id" binding:"required"`
		DeliveryAddress      *string    `json:"delivery_address"`
		DeliveryNotes        *string    `json:"delivery_notes"`
		ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
		Items                []struct {
			ProductID uuid.UUID `json:"product_id" binding:"required"`
			Quantity  int       `json:"quantity" binding:"required,min=1"`
			UnitPrice float64   `json:"unit_price" binding:"min=0"`
		} `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branchID := req.BranchID
	if branchID == nil {
		branchID = GetBranchID(c)
	}
	if branchID == nil {
		response.BadRequest(c, "Branch is required")
		return
	}

	items := make([]service.BulkOrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BulkOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	order, err := h.bulkOrderService.Create(c.Request.Context(), &service.CreateBulkOrderInput{
		BranchID:             *branchID,
		SupplierUserID:       req.SupplierUserID,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryNotes:        req.DeliveryNotes,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		CreatedByID:          *userID,
		Items:                items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bulk order submitted successfully", order)
}

// List handles listing bulk orders with filters
func (h *BulkOrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.BulkOrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.BulkOrderStatus(statusStr)
		params.Status = &status
	}

	if supplierIDStr := c.Query("supplier_user_id"); supplierIDStr != "" {
		if supplierID, err := uuid.Parse(supplierIDStr); err == nil {
			params.SupplierUserID = &supplierID
		}
	}

	if branchIDStr := c.Query("branch_id"); branchIDStr != "" {
		if branchID, err := uuid.Parse(branchIDStr); err == nil {
			params.BranchID = &branchID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.bulkOrderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bulk orders retrieved successfully", result)
}

// Get handles getting a single bulk order with details
func (h *BulkOrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.bulkOrderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bulk order retrieved successfully", order)
}

// GetStatusLogs handles getting the transition audit trail of an order
func (h *BulkOrderHandler) GetStatusLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	logs, err := h.bulkOrderService.GetStatusLogs(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Status logs retrieved successfully", logs)
}

// StartReview handles the supplier picking up an order for review
func (h *BulkOrderHandler) StartReview(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.bulkOrderService.StartSupplierReview(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order review started", order)
}

// SupplierRespond handles the supplier's accept or reject decision
func (h *BulkOrderHandler) SupplierRespond(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Accept bool   `json:"accept"`
		Notes  string `json:"notes"`
		Items  []struct {
			ItemID             uuid.UUID `json:"item_id" binding:"required"`
			ConfirmedQuantity  *int      `json:"confirmed_quantity"`
			ConfirmedUnitPrice *float64  `json:"confirmed_unit_price"`
			Available          *bool     `json:"available"`
			SupplierNote       *string   `json:"supplier_note"`
		} `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.SupplierItemUpdate, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SupplierItemUpdate{
			ItemID:             item.ItemID,
			ConfirmedQuantity:  item.ConfirmedQuantity,
			ConfirmedUnitPrice: item.ConfirmedUnitPrice,
			Available:          item.Available,
			SupplierNote:       item.SupplierNote,
		}
	}

	order, err := h.bulkOrderService.SupplierRespond(c.Request.Context(), id, &service.SupplierRespondInput{
		SupplierUserID: *userID,
		Accept:         req.Accept,
		Notes:          req.Notes,
		Items:          items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier response recorded", order)
}

// BuyerConfirm handles the buyer confirming the supplier's adjusted order
func (h *BulkOrderHandler) BuyerConfirm(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Notes string `json:"notes"`
		Items []struct {
			ItemID        uuid.UUID `json:"item_id" binding:"required"`
			FinalQuantity *int      `json:"final_quantity"`
			Cancelled     *bool     `json:"cancelled"`
		} `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.BuyerItemUpdate, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BuyerItemUpdate{
			ItemID:        item.ItemID,
			FinalQuantity: item.FinalQuantity,
			Cancelled:     item.Cancelled,
		}
	}

	order, err := h.bulkOrderService.BuyerConfirm(c.Request.Context(), id, &service.BuyerConfirmInput{
		UserID: *userID,
		Notes:  req.Notes,
		Items:  items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order confirmed successfully", order)
}

// RecordPayment handles recording a payment against a confirmed order
func (h *BulkOrderHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Amount          float64 `json:"amount" binding:"required,gt=0"`
		PaymentMethod   string  `json:"payment_method" binding:"required"`
		CashAmount      float64 `json:"cash_amount" binding:"min=0"`
		OnlineAmount    float64 `json:"online_amount" binding:"min=0"`
		CreditAmount    float64 `json:"credit_amount" binding:"min=0"`
		ReferenceNumber *string `json:"reference_number"`
		Notes           *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.bulkOrderService.RecordPayment(c.Request.Context(), id, &service.RecordPaymentInput{
		Amount:          req.Amount,
		Method:          enum.PaymentMethod(req.PaymentMethod),
		CashAmount:      req.CashAmount,
		OnlineAmount:    req.OnlineAmount,
		CreditAmount:    req.CreditAmount,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		RecordedByID:    *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", order)
}

// Ship handles the supplier marking an order as shipped
func (h *BulkOrderHandler) Ship(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Carrier        *string `json:"carrier"`
		TrackingNumber *string `json:"tracking_number"`
		Notes          string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.bulkOrderService.Ship(c.Request.Context(), id, &service.ShipInput{
		SupplierUserID: *userID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order marked as shipped", order)
}

// MarkDelivered handles the buyer acknowledging delivery
func (h *BulkOrderHandler) MarkDelivered(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.bulkOrderService.MarkDelivered(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order marked as delivered", order)
}

// ReleaseStock handles the supplier deducting the shipped quantities from
// their own inventory
func (h *BulkOrderHandler) ReleaseStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	branchID := GetBranchID(c)
	if branchID == nil {
		response.BadRequest(c, "Supplier branch is required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.bulkOrderService.ReleaseStock(c.Request.Context(), id, *userID, *branchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock released successfully", order)
}

// ImportStock handles the buyer importing delivered items into inventory
func (h *BulkOrderHandler) ImportStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Pricing []struct {
			ItemID       uuid.UUID `json:"item_id" binding:"required"`
			SellingPrice float64   `json:"selling_price" binding:"min=0"`
		} `json:"pricing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	pricing := make([]service.ImportItemPricing, len(req.Pricing))
	for i, p := range req.Pricing {
		pricing[i] = service.ImportItemPricing{
			ItemID:       p.ItemID,
			SellingPrice: p.SellingPrice,
		}
	}

	order, err := h.bulkOrderService.ImportStock(c.Request.Context(), id, &service.ImportStockInput{
		UserID:  *userID,
		Pricing: pricing,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock imported successfully", order)
}

// Complete handles closing an imported order
func (h *BulkOrderHandler) Complete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.bulkOrderService.CompleteOrder(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order completed successfully", order)
}

// Cancel handles cancelling an order before it reaches a terminal state
func (h *BulkOrderHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.bulkOrderService.Cancel(c.Request.Context(), id, *userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}
