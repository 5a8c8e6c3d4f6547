package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/application/service"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// OrganizationHandler handles organization and branch HTTP requests
type OrganizationHandler struct {
	organizationService *service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(organizationService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: organizationService}
}

// Create handles registering a new organization with its main branch
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req struct {
		Name    string  `json:"name" binding:"required,min=2,max=255"`
		Slug    string  `json:"slug" binding:"omitempty,max=100"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.organizationService.CreateOrganization(c.Request.Context(), &service.CreateOrganizationInput{
		Name:    req.Name,
		Slug:    req.Slug,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Organization created successfully", org)
}

// Get handles getting a single organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.organizationService.GetOrganization(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organization retrieved successfully", org)
}

// List handles listing all organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.organizationService.ListOrganizations(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Organizations retrieved successfully", result)
}

// Update handles updating an organization
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid organization ID")
		return
	}

	var req struct {
		Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email" binding:"omitempty,email"`
		Active  *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.organizationService.UpdateOrganization(c.Request.Context(), id, &service.UpdateOrganizationInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Active:  req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organization updated successfully", org)
}

// CreateBranch handles adding a branch to an organization
func (h *OrganizationHandler) CreateBranch(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid organization ID")
		return
	}

	var req struct {
		Name    string  `json:"name" binding:"required,min=2,max=255"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.organizationService.CreateBranch(c.Request.Context(), &service.CreateBranchInput{
		OrganizationID: orgID,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Branch created successfully", branch)
}

// ListBranches handles listing an organization's branches
func (h *OrganizationHandler) ListBranches(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid organization ID")
		return
	}

	branches, err := h.organizationService.ListBranches(c.Request.Context(), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branches retrieved successfully", branches)
}

// UpdateBranch handles updating a branch
func (h *OrganizationHandler) UpdateBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branchId"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	var req struct {
		Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
		Active  *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.organizationService.UpdateBranch(c.Request.Context(), branchID, &service.UpdateBranchInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Active:  req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch updated successfully", branch)
}
