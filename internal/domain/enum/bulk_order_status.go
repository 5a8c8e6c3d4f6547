package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BulkOrderStatus represents the state of a supplier bulk order. The buyer
// and the supplier drive the order through a fixed state machine; every
// change is recorded in the order's status log.
type BulkOrderStatus string

const (
	BulkOrderStatusSubmitted         BulkOrderStatus = "submitted"
	BulkOrderStatusSupplierReviewing BulkOrderStatus = "supplier_reviewing"
	BulkOrderStatusSupplierConfirmed BulkOrderStatus = "supplier_confirmed"
	BulkOrderStatusSupplierRejected  BulkOrderStatus = "supplier_rejected"
	BulkOrderStatusBuyerReviewing    BulkOrderStatus = "buyer_reviewing"
	BulkOrderStatusBuyerConfirmed    BulkOrderStatus = "buyer_confirmed"
	BulkOrderStatusPaymentPending    BulkOrderStatus = "payment_pending"
	BulkOrderStatusPaymentPartial    BulkOrderStatus = "payment_partial"
	BulkOrderStatusPaymentCompleted  BulkOrderStatus = "payment_completed"
	BulkOrderStatusReadyToShip       BulkOrderStatus = "ready_to_ship"
	BulkOrderStatusShipped           BulkOrderStatus = "shipped"
	BulkOrderStatusDelivered         BulkOrderStatus = "delivered"
	BulkOrderStatusReleased          BulkOrderStatus = "released"
	BulkOrderStatusImported          BulkOrderStatus = "imported"
	BulkOrderStatusCompleted         BulkOrderStatus = "completed"
	BulkOrderStatusCancelled         BulkOrderStatus = "cancelled"
)

// transitions is the set of legal forward moves. Cancellation is handled
// separately because it is reachable from every non-terminal state.
var transitions = map[BulkOrderStatus][]BulkOrderStatus{
	BulkOrderStatusSubmitted:         {BulkOrderStatusSupplierReviewing, BulkOrderStatusSupplierConfirmed, BulkOrderStatusSupplierRejected},
	BulkOrderStatusSupplierReviewing: {BulkOrderStatusSupplierConfirmed, BulkOrderStatusSupplierRejected},
	BulkOrderStatusSupplierConfirmed: {BulkOrderStatusBuyerReviewing},
	BulkOrderStatusBuyerReviewing:    {BulkOrderStatusBuyerConfirmed},
	BulkOrderStatusBuyerConfirmed:    {BulkOrderStatusPaymentPending, BulkOrderStatusPaymentPartial, BulkOrderStatusPaymentCompleted, BulkOrderStatusShipped},
	BulkOrderStatusPaymentPending:    {BulkOrderStatusPaymentPartial, BulkOrderStatusPaymentCompleted, BulkOrderStatusShipped},
	BulkOrderStatusPaymentPartial:    {BulkOrderStatusPaymentCompleted, BulkOrderStatusShipped},
	BulkOrderStatusPaymentCompleted:  {BulkOrderStatusReadyToShip, BulkOrderStatusShipped},
	BulkOrderStatusReadyToShip:       {BulkOrderStatusShipped},
	BulkOrderStatusShipped:           {BulkOrderStatusDelivered},
	BulkOrderStatusDelivered:         {BulkOrderStatusReleased},
	BulkOrderStatusReleased:          {BulkOrderStatusImported},
	BulkOrderStatusImported:          {BulkOrderStatusCompleted},
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s BulkOrderStatus) CanTransitionTo(target BulkOrderStatus) bool {
	if target == BulkOrderStatusCancelled {
		return !s.IsTerminal()
	}
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order can no longer change state.
func (s BulkOrderStatus) IsTerminal() bool {
	switch s {
	case BulkOrderStatusCompleted, BulkOrderStatusCancelled, BulkOrderStatusSupplierRejected:
		return true
	}
	return false
}

// CanModifyItems reports whether the buyer may still change order lines.
// Derived from the status rather than stored, so it can never drift.
func (s BulkOrderStatus) CanModifyItems() bool {
	switch s {
	case BulkOrderStatusSubmitted, BulkOrderStatusSupplierReviewing,
		BulkOrderStatusSupplierConfirmed, BulkOrderStatusBuyerReviewing:
		return true
	}
	return false
}

// SupplierLocked reports whether the supplier side of the order is frozen.
// Once goods are in transit the supplier can no longer amend anything.
func (s BulkOrderStatus) SupplierLocked() bool {
	switch s {
	case BulkOrderStatusShipped, BulkOrderStatusDelivered, BulkOrderStatusReleased,
		BulkOrderStatusImported, BulkOrderStatusCompleted:
		return true
	}
	return false
}

func (s BulkOrderStatus) String() string {
	return string(s)
}

func (s BulkOrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *BulkOrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = BulkOrderStatus(str)
	return nil
}

func (s BulkOrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *BulkOrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BulkOrderStatusSubmitted
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = BulkOrderStatus(v)
	case []byte:
		*s = BulkOrderStatus(string(v))
	}
	return nil
}
