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

// InventoryHandler handles batch and stock movement HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ReceiveBatch handles receiving a new batch of stock
func (h *InventoryHandler) ReceiveBatch(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		ProductID         uuid.UUID  `json:"product_id" binding:"required"`
		BranchID          *uuid.UUID `json:"branch_id"`
		Quantity          int        `json:"quantity" binding:"required,min=1"`
		CostPrice         float64    `json:"cost_price" binding:"min=0"`
		SellingPrice      *float64   `json:"selling_price"`
		BatchNumber       string     `json:"batch_number" binding:"required"`
		ExpiryDate        *time.Time `json:"expiry_date"`
		ManufacturingDate *time.Time `json:"manufacturing_date"`
		SupplierType      string     `json:"supplier_type" binding:"required"`
		SupplierUserID    *uuid.UUID `json:"supplier_user_id"`
		CustomSupplierID  *uuid.UUID `json:"custom_supplier_id"`
		Location          *string    `json:"location"`
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

	batch, err := h.inventoryService.ReceiveBatch(c.Request.Context(), &service.ReceiveBatchInput{
		ProductID:         req.ProductID,
		BranchID:          *branchID,
		Quantity:          req.Quantity,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		BatchNumber:       req.BatchNumber,
		ExpiryDate:        req.ExpiryDate,
		ManufacturingDate: req.ManufacturingDate,
		SupplierType:      enum.SupplierType(req.SupplierType),
		SupplierUserID:    req.SupplierUserID,
		CustomSupplierID:  req.CustomSupplierID,
		Location:          req.Location,
		CreatedByID:       *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Batch received successfully", batch)
}

// ListBatches handles listing batches with filters
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.BatchFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:       c.Query("search"),
		BranchID:     branchIDFromQuery(c),
		IncludeEmpty: c.Query("include_empty") == "true",
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}

	if productIDStr := c.Query("product_id"); productIDStr != "" {
		if productID, err := uuid.Parse(productIDStr); err == nil {
			params.ProductID = &productID
		}
	}

	result, err := h.inventoryService.ListBatches(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Batches retrieved successfully", result)
}

// GetBatch handles getting a single batch
func (h *InventoryHandler) GetBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid batch ID")
		return
	}

	batch, err := h.inventoryService.GetBatch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Batch retrieved successfully", batch)
}

// UpdateBatch handles updating batch pricing and metadata
func (h *InventoryHandler) UpdateBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid batch ID")
		return
	}

	var req struct {
		SellingPrice *float64   `json:"selling_price"`
		ExpiryDate   *time.Time `json:"expiry_date"`
		Location     *string    `json:"location"`
		IsActive     *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	batch, err := h.inventoryService.UpdateBatch(c.Request.Context(), id, &service.UpdateBatchInput{
		SellingPrice: req.SellingPrice,
		ExpiryDate:   req.ExpiryDate,
		Location:     req.Location,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Batch updated successfully", batch)
}

// AdjustStock handles correcting a batch quantity
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid batch ID")
		return
	}

	var req struct {
		NewQuantity int    `json:"new_quantity" binding:"min=0"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	batch, err := h.inventoryService.AdjustStock(c.Request.Context(), &service.AdjustStockInput{
		BatchID:     id,
		NewQuantity: req.NewQuantity,
		Reason:      req.Reason,
		CreatedByID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", batch)
}

// GetAvailableStock handles summing available stock for a product
func (h *InventoryHandler) GetAvailableStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	branchID := branchIDFromQuery(c)
	if branchID == nil {
		response.BadRequest(c, "Branch is required")
		return
	}

	available, err := h.inventoryService.GetAvailableStock(c.Request.Context(), productID, *branchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Available stock retrieved successfully", gin.H{
		"product_id": productID,
		"branch_id":  branchID,
		"available":  available,
	})
}

// ListExpiringBatches handles listing batches nearing expiry
func (h *InventoryHandler) ListExpiringBatches(c *gin.Context) {
	withinDays, _ := strconv.Atoi(c.DefaultQuery("within_days", "30"))

	batches, err := h.inventoryService.ListExpiringBatches(c.Request.Context(), branchIDFromQuery(c), withinDays)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expiring batches retrieved successfully", batches)
}

// ListStockEntries handles listing the stock movement trail
func (h *InventoryHandler) ListStockEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.StockEntryFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		BranchID: branchIDFromQuery(c),
	}

	if productIDStr := c.Query("product_id"); productIDStr != "" {
		if productID, err := uuid.Parse(productIDStr); err == nil {
			params.ProductID = &productID
		}
	}

	if batchIDStr := c.Query("batch_id"); batchIDStr != "" {
		if batchID, err := uuid.Parse(batchIDStr); err == nil {
			params.BatchID = &batchID
		}
	}

	if entryTypeStr := c.Query("entry_type"); entryTypeStr != "" {
		entryType := enum.StockEntryType(entryTypeStr)
		params.EntryType = &entryType
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

	result, err := h.inventoryService.ListStockEntries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock entries retrieved successfully", result)
}

type customSupplierRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// CreateCustomSupplier handles registering a free-text supplier
func (h *InventoryHandler) CreateCustomSupplier(c *gin.Context) {
	var req customSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	supplier, err := h.inventoryService.CreateCustomSupplier(c.Request.Context(), &service.CreateCustomSupplierInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier created successfully", supplier)
}

// UpdateCustomSupplier handles updating a free-text supplier
func (h *InventoryHandler) UpdateCustomSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req customSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	supplier, err := h.inventoryService.UpdateCustomSupplier(c.Request.Context(), id, &service.CreateCustomSupplierInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier updated successfully", supplier)
}

// DeleteCustomSupplier handles removing a free-text supplier
func (h *InventoryHandler) DeleteCustomSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.inventoryService.DeleteCustomSupplier(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier deleted successfully", nil)
}

// ListCustomSuppliers handles listing free-text suppliers
func (h *InventoryHandler) ListCustomSuppliers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.inventoryService.ListCustomSuppliers(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Suppliers retrieved successfully", result)
}
