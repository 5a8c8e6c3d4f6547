package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale represents a point-of-sale transaction. A sale is saved as pending
// without touching stock; completing it deducts stock from the batches in
// each line's allocation snapshot and records payments.
type Sale struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID          `gorm:"type:uuid;not null;index" json:"organization_id"`
	BranchID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"branch_id"`
	PatientID      *uuid.UUID         `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	SaleNumber     string             `gorm:"size:100;unique;not null" json:"sale_number"`
	Status         enum.SaleStatus    `gorm:"default:0" json:"status"`
	SubTotal       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax            int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	AmountPaid     int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Change         int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Credit         int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaymentMethod  enum.PaymentMethod `gorm:"size:50;default:'cash'" json:"payment_method"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID    uuid.UUID          `gorm:"type:uuid;not null" json:"created_by_id"`
	CompletedByID  *uuid.UUID         `gorm:"type:uuid" json:"completed_by_id,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Branch       Branch       `gorm:"foreignKey:BranchID" json:"-"`
	Patient      *Patient     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Items        []SaleItem   `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments     []Payment    `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal   float64 `json:"sub_total"`
		Discount   float64 `json:"discount"`
		Tax        float64 `json:"tax"`
		Total      float64 `json:"total"`
		AmountPaid float64 `json:"amount_paid"`
		Change     float64 `json:"change"`
		Credit     float64 `json:"credit"`
	}{
		Alias:      Alias(s),
		SubTotal:   float64(s.SubTotal) / 100,
		Discount:   float64(s.Discount) / 100,
		Tax:        float64(s.Tax) / 100,
		Total:      float64(s.Total) / 100,
		AmountPaid: float64(s.AmountPaid) / 100,
		Change:     float64(s.Change) / 100,
		Credit:     float64(s.Credit) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// HasCredit reports whether the sale still carries an outstanding balance
func (s *Sale) HasCredit() bool {
	return s.Credit > 0
}

// BatchAllocation is one entry of a sale line's allocation snapshot: how
// many units come out of which batch, at which price. The snapshot is
// taken at allocation time and verified again at completion.
type BatchAllocation struct {
	BatchID     uuid.UUID `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"` // cents
}

// BatchAllocationList is the JSON-serialized snapshot stored on a sale item
type BatchAllocationList []BatchAllocation

// TotalQuantity returns the number of units covered by the snapshot
func (l BatchAllocationList) TotalQuantity() int {
	total := 0
	for _, a := range l {
		total += a.Quantity
	}
	return total
}

// SaleItem represents a line on a sale, together with the snapshot of
// batch allocations that back its quantity.
type SaleItem struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SaleID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity         int                 `gorm:"not null" json:"quantity"`
	UnitPrice        int64               `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total            int64               `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	AllocatedBatches BatchAllocationList `gorm:"type:jsonb;serializer:json" json:"allocated_batches"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		Total:     float64(si.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// Payment represents one settlement against a sale. A sale can carry
// several payments: the amounts taken at completion and any credit
// payments made later.
type Payment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount          int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Method          enum.PaymentMethod `gorm:"size:50;not null" json:"method"`
	ReferenceNumber *string            `gorm:"size:100" json:"reference_number,omitempty"`
	ReceivedByID    uuid.UUID          `gorm:"type:uuid;not null" json:"received_by_id"`
	CreatedAt       time.Time          `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
