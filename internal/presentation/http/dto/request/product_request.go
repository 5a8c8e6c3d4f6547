package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID           *uuid.UUID `json:"category_id"`
	GenericName          string     `json:"generic_name" binding:"required,min=2,max=255"`
	BrandName            *string    `json:"brand_name" binding:"omitempty,max=255"`
	Code                 string     `json:"code" binding:"omitempty,max=100"`
	DosageForm           *string    `json:"dosage_form"`
	Strength             *string    `json:"strength"`
	Unit                 string     `json:"unit" binding:"omitempty,max=50"`
	RequiresPrescription bool       `json:"requires_prescription"`
	ReorderLevel         int        `json:"reorder_level" binding:"min=0"`
	CostPrice            float64    `json:"cost_price" binding:"min=0"`
	SellingPrice         float64    `json:"selling_price" binding:"min=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID           *uuid.UUID `json:"category_id"`
	GenericName          *string    `json:"generic_name" binding:"omitempty,min=2,max=255"`
	BrandName            *string    `json:"brand_name" binding:"omitempty,max=255"`
	Code                 *string    `json:"code" binding:"omitempty,min=1,max=100"`
	DosageForm           *string    `json:"dosage_form"`
	Strength             *string    `json:"strength"`
	Unit                 *string    `json:"unit" binding:"omitempty,max=50"`
	RequiresPrescription *bool      `json:"requires_prescription"`
	ReorderLevel         *int       `json:"reorder_level" binding:"omitempty,min=0"`
	CostPrice            *float64   `json:"cost_price" binding:"omitempty,min=0"`
	SellingPrice         *float64   `json:"selling_price" binding:"omitempty,min=0"`
	Active               *bool      `json:"active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
