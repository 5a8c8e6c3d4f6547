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

// SaleHandler handles point-of-sale HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

type saleItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type saveSaleRequest struct {
	BranchID     *uuid.UUID        `json:"branch_id"`
	PatientID    *uuid.UUID        `json:"patient_id"`
	PatientName  string            `json:"patient_name"`
	PatientPhone string            `json:"patient_phone"`
	Discount     float64           `json:"discount" binding:"min=0"`
	Notes        *string           `json:"notes"`
	Items        []saleItemRequest `json:"items" binding:"required,min=1"`
}

func (r *saveSaleRequest) toInput(c *gin.Context) (*service.SaveSaleInput, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	branchID := r.BranchID
	if branchID == nil {
		branchID = GetBranchID(c)
	}
	if branchID == nil {
		response.BadRequest(c, "Branch is required")
		return nil, false
	}

	items := make([]service.SaleItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return &service.SaveSaleInput{
		BranchID:     *branchID,
		PatientID:    r.PatientID,
		PatientName:  r.PatientName,
		PatientPhone: r.PatientPhone,
		Discount:     r.Discount,
		Notes:        r.Notes,
		CreatedByID:  *userID,
		Items:        items,
	}, true
}

// SavePending handles saving a new pending bill
func (h *SaleHandler) SavePending(c *gin.Context) {
	var req saveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := req.toInput(c)
	if !ok {
		return
	}

	sale, err := h.saleService.SavePending(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale saved successfully", sale)
}

// UpdatePending handles replacing the contents of a pending bill
func (h *SaleHandler) UpdatePending(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req saveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := req.toInput(c)
	if !ok {
		return
	}

	sale, err := h.saleService.UpdatePending(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// Complete handles finalizing a pending sale with payment
func (h *SaleHandler) Complete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req struct {
		Payments []struct {
			Amount          float64 `json:"amount" binding:"required,gt=0"`
			PaymentMethod   string  `json:"payment_method" binding:"required"`
			ReferenceNumber *string `json:"reference_number"`
		} `json:"payments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payments := make([]service.SalePaymentInput, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = service.SalePaymentInput{
			Amount:          p.Amount,
			Method:          enum.PaymentMethod(p.PaymentMethod),
			ReferenceNumber: p.ReferenceNumber,
		}
	}

	sale, err := h.saleService.Complete(c.Request.Context(), id, &service.CompleteSaleInput{
		Payments:      payments,
		CompletedByID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale completed successfully", sale)
}

// PreviewAllocation handles planning batch coverage for one product line
func (h *SaleHandler) PreviewAllocation(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID  `json:"product_id" binding:"required"`
		BranchID  *uuid.UUID `json:"branch_id"`
		Quantity  int        `json:"quantity" binding:"required,min=1"`
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

	allocations, err := h.saleService.PreviewAllocation(c.Request.Context(), req.ProductID, *branchID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	total := 0
	for _, alloc := range allocations {
		total += alloc.Quantity
	}
	response.OK(c, "Allocation planned successfully", gin.H{
		"allocations":     allocations,
		"total_allocated": total,
	})
}

// ValidateStock handles checking requested lines against quantity on hand
func (h *SaleHandler) ValidateStock(c *gin.Context) {
	var req struct {
		BranchID *uuid.UUID        `json:"branch_id"`
		Items    []saleItemRequest `json:"items" binding:"required,min=1"`
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

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	results, err := h.saleService.ValidateStock(c.Request.Context(), *branchID, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock validated successfully", results)
}

// List handles listing sales with filters
func (h *SaleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:     c.Query("search"),
		BranchID:   branchIDFromQuery(c),
		OnlyCredit: c.Query("only_credit") == "true",
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.SaleStatus(statusInt)
			params.Status = &status
		}
	}

	if patientIDStr := c.Query("patient_id"); patientIDStr != "" {
		if patientID, err := uuid.Parse(patientIDStr); err == nil {
			params.PatientID = &patientID
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

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// ListPending handles listing saved pending bills
func (h *SaleHandler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.saleService.ListPendingBills(c.Request.Context(), branchIDFromQuery(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Pending bills retrieved successfully", result)
}

// Get handles getting a single sale with details
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// GetReceipt handles building a printable receipt for a completed sale
func (h *SaleHandler) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	receipt, err := h.saleService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated successfully", receipt)
}

// PayCredit handles recording a payment against a credit sale
func (h *SaleHandler) PayCredit(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req struct {
		Amount          float64 `json:"amount" binding:"required,gt=0"`
		PaymentMethod   string  `json:"payment_method" binding:"required"`
		ReferenceNumber *string `json:"reference_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.PayCredit(c.Request.Context(), id, req.Amount, enum.PaymentMethod(req.PaymentMethod), req.ReferenceNumber, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Credit payment recorded successfully", sale)
}

// Delete handles deleting a sale, restoring stock if it was completed
func (h *SaleHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.Delete(c.Request.Context(), id, GetUserRole(c), *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale deleted successfully", nil)
}
