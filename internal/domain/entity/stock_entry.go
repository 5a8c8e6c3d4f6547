package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"gorm.io/gorm"
)

// StockEntry is one row of the append-only stock movement trail. Every
// quantity change on a batch writes an entry with the delta and the
// before/after quantities.
type StockEntry struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"organization_id"`
	BranchID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"branch_id"`
	ProductID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchID          *uuid.UUID          `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	EntryType        enum.StockEntryType `gorm:"size:50;not null;index" json:"entry_type"`
	Quantity         int                 `gorm:"not null" json:"quantity"` // signed delta
	PreviousQuantity int                 `gorm:"not null" json:"previous_quantity"`
	CurrentQuantity  int                 `gorm:"not null" json:"current_quantity"`
	ReferenceNumber  string              `gorm:"size:100;index" json:"reference_number"`
	UnitCost         int64               `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedByID      uuid.UUID           `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt        time.Time           `json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	Batch   *Batch  `gorm:"foreignKey:BatchID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (e StockEntry) MarshalJSON() ([]byte, error) {
	type Alias StockEntry
	return json.Marshal(&struct {
		Alias
		UnitCost float64 `json:"unit_cost"`
	}{
		Alias:    Alias(e),
		UnitCost: float64(e.UnitCost) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new stock entry
func (e *StockEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockEntry model
func (StockEntry) TableName() string {
	return "stock_entries"
}
