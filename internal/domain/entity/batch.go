package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Batch represents a received lot of a product at a branch. Each receipt
// creates a new batch; batches are never merged and never hard-deleted,
// a drained batch simply sits at quantity zero.
//
// The supplier reference is a tagged union: SupplierType selects which of
// SupplierUserID (registered platform supplier) or CustomSupplierID
// (free-text registry) is set, and exactly one must be.
type Batch struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"organization_id"`
	BranchID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"branch_id"`
	ProductID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity          int               `gorm:"not null;default:0" json:"quantity"`
	InitialQuantity   int               `gorm:"not null;default:0" json:"initial_quantity"`
	CostPrice         int64             `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	SellingPrice      *int64            `json:"-"`                 // Stored in cents, optional; falls back to cost price
	BatchNumber       string            `gorm:"size:100;not null;index" json:"batch_number"`
	ExpiryDate        *time.Time        `gorm:"type:date;index" json:"expiry_date,omitempty"`
	ManufacturingDate *time.Time        `gorm:"type:date" json:"manufacturing_date,omitempty"`
	SupplierType      enum.SupplierType `gorm:"size:50;default:'custom'" json:"supplier_type"`
	SupplierUserID    *uuid.UUID        `gorm:"type:uuid;index" json:"supplier_user_id,omitempty"`
	CustomSupplierID  *uuid.UUID        `gorm:"type:uuid;index" json:"custom_supplier_id,omitempty"`
	Location          *string           `gorm:"size:255" json:"location,omitempty"`
	IsActive          bool              `gorm:"default:true" json:"is_active"`
	CreatedByID       uuid.UUID         `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Relationships
	Organization   Organization    `gorm:"foreignKey:OrganizationID" json:"-"`
	Branch         Branch          `gorm:"foreignKey:BranchID" json:"-"`
	Product        Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	SupplierUser   *User           `gorm:"foreignKey:SupplierUserID" json:"supplier_user,omitempty"`
	CustomSupplier *CustomSupplier `gorm:"foreignKey:CustomSupplierID" json:"custom_supplier,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Batch) MarshalJSON() ([]byte, error) {
	type Alias Batch
	var selling *float64
	if b.SellingPrice != nil {
		v := float64(*b.SellingPrice) / 100
		selling = &v
	}
	return json.Marshal(&struct {
		Alias
		CostPrice    float64  `json:"cost_price"`
		SellingPrice *float64 `json:"selling_price,omitempty"`
	}{
		Alias:        Alias(b),
		CostPrice:    float64(b.CostPrice) / 100,
		SellingPrice: selling,
	})
}

// BeforeCreate generates a UUID before creating a new batch
func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Batch model
func (Batch) TableName() string {
	return "batches"
}

// UnitPrice returns the price a sale line should use for this batch:
// the selling price when set, the cost price otherwise.
func (b *Batch) UnitPrice() int64 {
	if b.SellingPrice != nil && *b.SellingPrice > 0 {
		return *b.SellingPrice
	}
	return b.CostPrice
}

// SupplierName returns a display name for the batch's supplier
func (b *Batch) SupplierName() string {
	switch b.SupplierType {
	case enum.SupplierTypeRegistered:
		if b.SupplierUser != nil {
			if b.SupplierUser.CompanyName != nil && *b.SupplierUser.CompanyName != "" {
				return *b.SupplierUser.CompanyName
			}
			return b.SupplierUser.FullName()
		}
	case enum.SupplierTypeCustom:
		if b.CustomSupplier != nil {
			return b.CustomSupplier.Name
		}
	}
	return ""
}

// CustomSupplier represents a free-text supplier in the organization's
// own registry, used when stock is sourced outside the platform.
type CustomSupplier struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Phone          *string        `gorm:"size:50" json:"phone,omitempty"`
	Email          *string        `gorm:"size:255" json:"email,omitempty"`
	Address        *string        `gorm:"type:text" json:"address,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new custom supplier
func (s *CustomSupplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CustomSupplier model
func (CustomSupplier) TableName() string {
	return "custom_suppliers"
}
