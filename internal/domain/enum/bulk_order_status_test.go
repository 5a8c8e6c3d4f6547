package enum

import "testing"

func TestBulkOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    BulkOrderStatus
		to      BulkOrderStatus
		allowed bool
	}{
		{BulkOrderStatusSubmitted, BulkOrderStatusSupplierReviewing, true},
		{BulkOrderStatusSubmitted, BulkOrderStatusSupplierConfirmed, true},
		{BulkOrderStatusSubmitted, BulkOrderStatusShipped, false},
		{BulkOrderStatusSupplierReviewing, BulkOrderStatusSupplierRejected, true},
		{BulkOrderStatusSupplierConfirmed, BulkOrderStatusBuyerReviewing, true},
		{BulkOrderStatusSupplierConfirmed, BulkOrderStatusBuyerConfirmed, false},
		{BulkOrderStatusBuyerReviewing, BulkOrderStatusBuyerConfirmed, true},
		{BulkOrderStatusBuyerConfirmed, BulkOrderStatusPaymentPartial, true},
		{BulkOrderStatusBuyerConfirmed, BulkOrderStatusShipped, true},
		{BulkOrderStatusPaymentPartial, BulkOrderStatusPaymentCompleted, true},
		{BulkOrderStatusPaymentPartial, BulkOrderStatusPaymentPending, false},
		{BulkOrderStatusPaymentCompleted, BulkOrderStatusReadyToShip, true},
		{BulkOrderStatusReadyToShip, BulkOrderStatusShipped, true},
		{BulkOrderStatusShipped, BulkOrderStatusDelivered, true},
		{BulkOrderStatusShipped, BulkOrderStatusReleased, false},
		{BulkOrderStatusDelivered, BulkOrderStatusReleased, true},
		{BulkOrderStatusReleased, BulkOrderStatusImported, true},
		{BulkOrderStatusImported, BulkOrderStatusCompleted, true},
		{BulkOrderStatusCompleted, BulkOrderStatusSubmitted, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestBulkOrderStatusCancellation(t *testing.T) {
	nonTerminal := []BulkOrderStatus{
		BulkOrderStatusSubmitted,
		BulkOrderStatusSupplierReviewing,
		BulkOrderStatusBuyerConfirmed,
		BulkOrderStatusPaymentPartial,
		BulkOrderStatusShipped,
		BulkOrderStatusReleased,
		BulkOrderStatusImported,
	}
	for _, s := range nonTerminal {
		if !s.CanTransitionTo(BulkOrderStatusCancelled) {
			t.Errorf("%s should be cancellable", s)
		}
	}

	terminal := []BulkOrderStatus{
		BulkOrderStatusCompleted,
		BulkOrderStatusCancelled,
		BulkOrderStatusSupplierRejected,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
		if s.CanTransitionTo(BulkOrderStatusCancelled) {
			t.Errorf("%s should not be cancellable", s)
		}
	}
}

func TestBulkOrderStatusItemModification(t *testing.T) {
	if !BulkOrderStatusBuyerReviewing.CanModifyItems() {
		t.Error("items should be editable while the buyer reviews")
	}
	if BulkOrderStatusBuyerConfirmed.CanModifyItems() {
		t.Error("items must freeze once the buyer confirms")
	}
	if BulkOrderStatusShipped.CanModifyItems() {
		t.Error("items must freeze once shipped")
	}
}

func TestBulkOrderStatusSupplierLock(t *testing.T) {
	if BulkOrderStatusReadyToShip.SupplierLocked() {
		t.Error("supplier should still act before dispatch")
	}
	for _, s := range []BulkOrderStatus{
		BulkOrderStatusShipped,
		BulkOrderStatusDelivered,
		BulkOrderStatusReleased,
		BulkOrderStatusImported,
		BulkOrderStatusCompleted,
	} {
		if !s.SupplierLocked() {
			t.Errorf("%s should lock the supplier side", s)
		}
	}
}
