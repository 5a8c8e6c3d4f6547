package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"gorm.io/gorm"
)

// BulkOrder represents a wholesale order a pharmacy places with a
// registered supplier. The order moves through a fixed state machine and
// every transition is recorded in its status log.
type BulkOrder struct {
	ID                   uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber          string               `gorm:"size:100;unique;not null" json:"order_number"`
	OrganizationID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"organization_id"`
	BranchID             uuid.UUID            `gorm:"type:uuid;not null;index" json:"branch_id"`
	SupplierUserID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"supplier_user_id"`
	Status               enum.BulkOrderStatus `gorm:"size:50;default:'submitted';index" json:"status"`
	SubTotal             int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax                  int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ShippingCost         int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total                int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	AmountPaid           int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	AdvanceAmount        int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DeliveryAddress      *string              `gorm:"type:text" json:"delivery_address,omitempty"`
	DeliveryNotes        *string              `gorm:"type:text" json:"delivery_notes,omitempty"`
	SupplierNotes        *string              `gorm:"type:text" json:"supplier_notes,omitempty"`
	ExpectedDeliveryDate *time.Time           `gorm:"type:date" json:"expected_delivery_date,omitempty"`
	ShippedDate          *time.Time           `json:"shipped_date,omitempty"`
	DeliveredDate        *time.Time           `json:"delivered_date,omitempty"`
	Carrier              *string              `gorm:"size:255" json:"carrier,omitempty"`
	TrackingNumber       *string              `gorm:"size:255" json:"tracking_number,omitempty"`
	CreatedByID          uuid.UUID            `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
	DeletedAt            gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Organization Organization         `gorm:"foreignKey:OrganizationID" json:"-"`
	Branch       Branch               `gorm:"foreignKey:BranchID" json:"-"`
	SupplierUser User                 `gorm:"foreignKey:SupplierUserID" json:"supplier_user,omitempty"`
	Items        []BulkOrderItem      `gorm:"foreignKey:BulkOrderID" json:"items,omitempty"`
	StatusLogs   []BulkOrderStatusLog `gorm:"foreignKey:BulkOrderID" json:"status_logs,omitempty"`
	Payments     []BulkOrderPayment   `gorm:"foreignKey:BulkOrderID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o BulkOrder) MarshalJSON() ([]byte, error) {
	type Alias BulkOrder
	return json.Marshal(&struct {
		Alias
		SubTotal        float64 `json:"sub_total"`
		Tax             float64 `json:"tax"`
		ShippingCost    float64 `json:"shipping_cost"`
		Total           float64 `json:"total"`
		AmountPaid      float64 `json:"amount_paid"`
		AdvanceAmount   float64 `json:"advance_amount"`
		RemainingAmount float64 `json:"remaining_amount"`
		CanModifyItems  bool    `json:"can_modify_items"`
		SupplierLocked  bool    `json:"supplier_locked"`
	}{
		Alias:           Alias(o),
		SubTotal:        float64(o.SubTotal) / 100,
		Tax:             float64(o.Tax) / 100,
		ShippingCost:    float64(o.ShippingCost) / 100,
		Total:           float64(o.Total) / 100,
		AmountPaid:      float64(o.AmountPaid) / 100,
		AdvanceAmount:   float64(o.AdvanceAmount) / 100,
		RemainingAmount: float64(o.RemainingAmount()) / 100,
		CanModifyItems:  o.Status.CanModifyItems(),
		SupplierLocked:  o.Status.SupplierLocked(),
	})
}

// BeforeCreate generates a UUID before creating a new bulk order
func (o *BulkOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BulkOrder model
func (BulkOrder) TableName() string {
	return "bulk_orders"
}

// RemainingAmount returns how much of the total is still unpaid
func (o *BulkOrder) RemainingAmount() int64 {
	remaining := o.Total - o.AmountPaid
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BulkOrderItem represents one product line on a bulk order. The buyer
// requests a quantity, the supplier confirms quantity and price, and the
// buyer may reduce the final quantity before payment.
type BulkOrderItem struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BulkOrderID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"bulk_order_id"`
	ProductID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	RequestedQuantity  int            `gorm:"not null" json:"requested_quantity"`
	ConfirmedQuantity  *int           `json:"confirmed_quantity,omitempty"`
	FinalQuantity      *int           `json:"final_quantity,omitempty"`
	UnitPrice          int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ConfirmedUnitPrice *int64         `json:"-"`                  // Stored in cents, excluded from JSON
	Available          *bool          `json:"available,omitempty"`
	Cancelled          bool           `gorm:"default:false" json:"cancelled"`
	SupplierNote       *string        `gorm:"type:text" json:"supplier_note,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	BulkOrder BulkOrder `gorm:"foreignKey:BulkOrderID" json:"-"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i BulkOrderItem) MarshalJSON() ([]byte, error) {
	type Alias BulkOrderItem
	var confirmed *float64
	if i.ConfirmedUnitPrice != nil {
		v := float64(*i.ConfirmedUnitPrice) / 100
		confirmed = &v
	}
	return json.Marshal(&struct {
		Alias
		UnitPrice          float64  `json:"unit_price"`
		ConfirmedUnitPrice *float64 `json:"confirmed_unit_price,omitempty"`
		LineTotal          float64  `json:"line_total"`
	}{
		Alias:              Alias(i),
		UnitPrice:          float64(i.UnitPrice) / 100,
		ConfirmedUnitPrice: confirmed,
		LineTotal:          float64(i.LineTotal()) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bulk order item
func (i *BulkOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BulkOrderItem model
func (BulkOrderItem) TableName() string {
	return "bulk_order_items"
}

// EffectiveQuantity returns the quantity the line currently stands at:
// final if the buyer set one, confirmed if the supplier did, requested
// otherwise. Cancelled lines count as zero.
func (i *BulkOrderItem) EffectiveQuantity() int {
	if i.Cancelled {
		return 0
	}
	if i.FinalQuantity != nil {
		return *i.FinalQuantity
	}
	if i.ConfirmedQuantity != nil {
		return *i.ConfirmedQuantity
	}
	return i.RequestedQuantity
}

// EffectiveUnitPrice returns the confirmed price when set, the requested
// price otherwise.
func (i *BulkOrderItem) EffectiveUnitPrice() int64 {
	if i.ConfirmedUnitPrice != nil {
		return *i.ConfirmedUnitPrice
	}
	return i.UnitPrice
}

// LineTotal returns the line's contribution to the order total
func (i *BulkOrderItem) LineTotal() int64 {
	return int64(i.EffectiveQuantity()) * i.EffectiveUnitPrice()
}

// BulkOrderStatusLog is one entry in a bulk order's audit trail. A row is
// appended for every status transition, including cancellation.
type BulkOrderStatusLog struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	BulkOrderID uuid.UUID            `gorm:"type:uuid;not null;index" json:"bulk_order_id"`
	FromStatus  enum.BulkOrderStatus `gorm:"size:50" json:"from_status"`
	ToStatus    enum.BulkOrderStatus `gorm:"size:50;not null" json:"to_status"`
	Notes       string               `gorm:"type:text" json:"notes"`
	ChangedByID uuid.UUID            `gorm:"type:uuid;not null" json:"changed_by_id"`
	CreatedAt   time.Time            `json:"created_at"`

	// Relationships
	BulkOrder BulkOrder `gorm:"foreignKey:BulkOrderID" json:"-"`
	ChangedBy User      `gorm:"foreignKey:ChangedByID" json:"changed_by,omitempty"`
}

// BeforeCreate generates a UUID before creating a new status log entry
func (l *BulkOrderStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BulkOrderStatusLog model
func (BulkOrderStatusLog) TableName() string {
	return "bulk_order_status_logs"
}

// BulkOrderPayment represents one installment paid against a bulk order.
// Mixed payments record how the amount splits across cash, online and
// credit.
type BulkOrderPayment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BulkOrderID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"bulk_order_id"`
	Amount          int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Method          enum.PaymentMethod `gorm:"size:50;not null" json:"method"`
	CashAmount      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OnlineAmount    int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreditAmount    int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ReferenceNumber *string            `gorm:"size:100" json:"reference_number,omitempty"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	RecordedByID    uuid.UUID          `gorm:"type:uuid;not null" json:"recorded_by_id"`
	CreatedAt       time.Time          `json:"created_at"`

	// Relationships
	BulkOrder BulkOrder `gorm:"foreignKey:BulkOrderID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p BulkOrderPayment) MarshalJSON() ([]byte, error) {
	type Alias BulkOrderPayment
	return json.Marshal(&struct {
		Alias
		Amount       float64 `json:"amount"`
		CashAmount   float64 `json:"cash_amount"`
		OnlineAmount float64 `json:"online_amount"`
		CreditAmount float64 `json:"credit_amount"`
	}{
		Alias:        Alias(p),
		Amount:       float64(p.Amount) / 100,
		CashAmount:   float64(p.CashAmount) / 100,
		OnlineAmount: float64(p.OnlineAmount) / 100,
		CreditAmount: float64(p.CreditAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bulk order payment
func (p *BulkOrderPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BulkOrderPayment model
func (BulkOrderPayment) TableName() string {
	return "bulk_order_payments"
}
