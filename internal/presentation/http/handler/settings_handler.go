package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/application/service"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles POS settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the effective POS settings for the caller's
// branch, falling back to the organization defaults
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context(), branchIDFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates POS settings at organization or branch level
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		BranchID      *uuid.UUID `json:"branch_id"`
		BusinessName  *string    `json:"business_name"`
		Address       *string    `json:"address"`
		Phone         *string    `json:"phone"`
		Email         *string    `json:"email" binding:"omitempty,email"`
		ReceiptFooter *string    `json:"receipt_footer"`
		TaxRate       *float64   `json:"tax_rate"`
		TaxType       *int       `json:"tax_type"`
		AcceptCash    *bool      `json:"accept_cash"`
		AcceptCard    *bool      `json:"accept_card"`
		AcceptMobile  *bool      `json:"accept_mobile"`
		AcceptCredit  *bool      `json:"accept_credit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		BranchID:      req.BranchID,
		BusinessName:  req.BusinessName,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		ReceiptFooter: req.ReceiptFooter,
		TaxRate:       req.TaxRate,
		TaxType:       req.TaxType,
		AcceptCash:    req.AcceptCash,
		AcceptCard:    req.AcceptCard,
		AcceptMobile:  req.AcceptMobile,
		AcceptCredit:  req.AcceptCredit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
