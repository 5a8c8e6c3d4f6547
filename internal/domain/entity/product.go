package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a medicine in the catalogue. Stock quantities live
// on batches, not on the product itself.
type Product struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	CategoryID           *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	GenericName          string         `gorm:"size:255;not null" json:"generic_name"`
	BrandName            *string        `gorm:"size:255" json:"brand_name,omitempty"`
	Code                 string         `gorm:"size:100;unique;not null" json:"code"`
	DosageForm           *string        `gorm:"size:100" json:"dosage_form,omitempty"`
	Strength             *string        `gorm:"size:100" json:"strength,omitempty"`
	Unit                 string         `gorm:"size:50;default:'piece'" json:"unit"`
	RequiresPrescription bool           `gorm:"default:false" json:"requires_prescription"`
	ReorderLevel         int            `gorm:"default:0" json:"reorder_level"`
	CostPrice            int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	SellingPrice         int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Active               bool           `gorm:"default:true" json:"active"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Category     *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		CostPrice    float64 `json:"cost_price"`
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		CostPrice:    float64(p.CostPrice) / 100,
		SellingPrice: float64(p.SellingPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// DisplayName returns the brand name when present, generic name otherwise
func (p *Product) DisplayName() string {
	if p.BrandName != nil && *p.BrandName != "" {
		return *p.BrandName
	}
	return p.GenericName
}

// SetCostPriceFromDecimal sets the cost price from a decimal value,
// rounded to the nearest cent
func (p *Product) SetCostPriceFromDecimal(price float64) {
	p.CostPrice = int64(math.Round(price * 100))
}

// SetSellingPriceFromDecimal sets the selling price from a decimal value,
// rounded to the nearest cent
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(math.Round(price * 100))
}

// Category represents a product category
type Category struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Slug           string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Products     []Product    `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
