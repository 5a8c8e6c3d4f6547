package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
)

func newBulkOrderService(f *testFixture) *BulkOrderService {
	batchRepo := infraRepo.NewBatchRepository(f.db)
	return NewBulkOrderService(
		infraRepo.NewBulkOrderRepository(f.db),
		infraRepo.NewProductRepository(f.db),
		infraRepo.NewUserRepository(f.db),
		batchRepo,
		infraRepo.NewStockEntryRepository(f.db),
		NewAllocatorService(batchRepo),
		infraRepo.NewTransactionManager(f.db),
	)
}

type supplierFixture struct {
	org    entity.Organization
	branch entity.Branch
	user   entity.User
}

// seedSupplier creates a supplier organization with its own branch and a
// supplier_admin user
func (f *testFixture) seedSupplier(t *testing.T) *supplierFixture {
	t.Helper()
	s := &supplierFixture{}

	s.org = entity.Organization{Name: "Wholesale Meds", Slug: "wholesale-meds", Active: true}
	if err := f.db.Create(&s.org).Error; err != nil {
		t.Fatalf("seed supplier org: %v", err)
	}

	s.branch = entity.Branch{OrganizationID: s.org.ID, Name: "Warehouse", Active: true}
	if err := f.db.Create(&s.branch).Error; err != nil {
		t.Fatalf("seed supplier branch: %v", err)
	}

	s.user = entity.User{
		OrganizationID: s.org.ID,
		BranchID:       &s.branch.ID,
		FirstName:      "Supplier",
		LastName:       "Admin",
		Email:          "admin@wholesale-meds.test",
		Role:           enum.UserRoleSupplierAdmin,
		Active:         true,
	}
	if err := f.db.Create(&s.user).Error; err != nil {
		t.Fatalf("seed supplier user: %v", err)
	}

	return s
}

// seedSupplierBatch stocks the supplier's warehouse with the fixture product
func (f *testFixture) seedSupplierBatch(t *testing.T, s *supplierFixture, quantity int) entity.Batch {
	t.Helper()
	f.batchSeq++
	selling := int64(4500)
	batch := entity.Batch{
		OrganizationID:  s.org.ID,
		BranchID:        s.branch.ID,
		ProductID:       f.product.ID,
		Quantity:        quantity,
		InitialQuantity: quantity,
		CostPrice:       3000,
		SellingPrice:    &selling,
		BatchNumber:     fmt.Sprintf("WH-%03d", f.batchSeq),
		SupplierType:    enum.SupplierTypeCustom,
		IsActive:        true,
		CreatedByID:     s.user.ID,
	}
	if err := f.db.Create(&batch).Error; err != nil {
		t.Fatalf("seed supplier batch: %v", err)
	}
	return batch
}

func (f *testFixture) createOrder(t *testing.T, svc *BulkOrderService, s *supplierFixture, quantity int, unitPrice float64) *entity.BulkOrder {
	t.Helper()
	order, err := svc.Create(f.ctx, &CreateBulkOrderInput{
		BranchID:       f.branch.ID,
		SupplierUserID: s.user.ID,
		CreatedByID:    f.user.ID,
		Items:          []BulkOrderItemInput{{ProductID: f.product.ID, Quantity: quantity, UnitPrice: unitPrice}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestCreateBulkOrderStartsSubmitted(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)
	supplier := f.seedSupplier(t)

	order := f.createOrder(t, svc, supplier, 100, 50.0)

	if order.Status != enum.BulkOrderStatusSubmitted {
		t.Fatalf("expected submitted, got %s", order.Status)
	}
	if order.SubTotal != 500000 || order.Total != 500000 {
		t.Fatalf("subtotal %d total %d", order.SubTotal, order.Total)
	}
	if len(order.Items) != 1 || order.Items[0].RequestedQuantity != 100 {
		t.Fatalf("unexpected items %+v", order.Items)
	}

	logs, err := svc.GetStatusLogs(f.ctx, order.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 1 || logs[0].FromStatus != enum.BulkOrderStatus("") || logs[0].ToStatus != enum.BulkOrderStatusSubmitted {
		t.Fatalf("unexpected opening log %+v", logs)
	}
}

func TestBulkOrderFullLifecycle(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)
	supplier := f.seedSupplier(t)
	supplierBatch := f.seedSupplierBatch(t, supplier, 100)

	order := f.createOrder(t, svc, supplier, 100, 50.0)
	itemID := order.Items[0].ID

	if _, err := svc.StartSupplierReview(f.ctx, order.ID, supplier.user.ID); err != nil {
		t.Fatalf("start review: %v", err)
	}

	confirmedQty := 80
	confirmedPrice := 45.0
	updated, err := svc.SupplierRespond(f.ctx, order.ID, &SupplierRespondInput{
		SupplierUserID: supplier.user.ID,
		Accept:         true,
		Items: []SupplierItemUpdate{{
			ItemID:             itemID,
			ConfirmedQuantity:  &confirmedQty,
			ConfirmedUnitPrice: &confirmedPrice,
		}},
	})
	if err != nil {
		t.Fatalf("supplier respond: %v", err)
	}
	if updated.Status != enum.BulkOrderStatusSupplierConfirmed {
		t.Fatalf("expected supplier_confirmed, got %s", updated.Status)
	}
	if updated.SubTotal != 360000 {
		t.Fatalf("subtotal after confirmation = %d, want 360000", updated.SubTotal)
	}

	finalQty := 60
	updated, err = svc.BuyerConfirm(f.ctx, order.ID, &BuyerConfirmInput{
		UserID: f.user.ID,
		Items:  []BuyerItemUpdate{{ItemID: itemID, FinalQuantity: &finalQty}},
	})
	if err != nil {
		t.Fatalf("buyer confirm: %v", err)
	}
	if updated.Status != enum.BulkOrderStatusBuyerConfirmed {
		t.Fatalf("expected buyer_confirmed, got %s", updated.Status)
	}
	if updated.SubTotal != 270000 || updated.Total != 270000 {
		t.Fatalf("subtotal %d total %d after final quantities", updated.SubTotal, updated.Total)
	}

	updated, err = svc.RecordPayment(f.ctx, order.ID, &RecordPaymentInput{
		Amount:       1000.0,
		Method:       enum.PaymentMethodCash,
		CashAmount:   1000.0,
		RecordedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if updated.Status != enum.BulkOrderStatusPaymentPartial || updated.AmountPaid != 100000 {
		t.Fatalf("status %s paid %d after partial payment", updated.Status, updated.AmountPaid)
	}

	updated, err = svc.RecordPayment(f.ctx, order.ID, &RecordPaymentInput{
		Amount:       1700.0,
		Method:       enum.PaymentMethodOnline,
		OnlineAmount: 1700.0,
		RecordedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if updated.Status != enum.BulkOrderStatusReadyToShip || updated.AmountPaid != 270000 {
		t.Fatalf("status %s paid %d after full payment", updated.Status, updated.AmountPaid)
	}

	if _, err := svc.Ship(f.ctx, order.ID, &ShipInput{SupplierUserID: supplier.user.ID}); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if _, err := svc.MarkDelivered(f.ctx, order.ID, f.user.ID); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if _, err := svc.ReleaseStock(f.ctx, order.ID, supplier.user.ID, supplier.branch.ID); err != nil {
		t.Fatalf("release stock: %v", err)
	}
	if got := f.batchQuantity(t, supplierBatch.ID); got != 40 {
		t.Fatalf("supplier batch = %d, want 40 after release", got)
	}

	updated, err = svc.ImportStock(f.ctx, order.ID, &ImportStockInput{UserID: f.user.ID})
	if err != nil {
		t.Fatalf("import stock: %v", err)
	}
	if updated.Status != enum.BulkOrderStatusImported {
		t.Fatalf("expected imported, got %s", updated.Status)
	}

	var imported entity.Batch
	if err := f.db.Where("branch_id = ? AND supplier_type = ?", f.branch.ID, enum.SupplierTypeRegistered).First(&imported).Error; err != nil {
		t.Fatalf("load imported batch: %v", err)
	}
	if imported.Quantity != 60 || imported.CostPrice != 4500 {
		t.Fatalf("imported batch quantity %d cost %d", imported.Quantity, imported.CostPrice)
	}
	if imported.SellingPrice == nil || *imported.SellingPrice != 5400 {
		t.Fatalf("expected default markup selling price 5400, got %v", imported.SellingPrice)
	}

	var purchaseEntries []entity.StockEntry
	if err := f.db.Where("entry_type = ?", enum.StockEntryTypePurchase).Find(&purchaseEntries).Error; err != nil {
		t.Fatalf("load purchase entries: %v", err)
	}
	if len(purchaseEntries) != 1 || purchaseEntries[0].Quantity != 60 {
		t.Fatalf("unexpected purchase trail %+v", purchaseEntries)
	}

	updated, err = svc.CompleteOrder(f.ctx, order.ID, f.user.ID)
	if err != nil {
		t.Fatalf("complete order: %v", err)
	}
	if updated.Status != enum.BulkOrderStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}

	logs, err := svc.GetStatusLogs(f.ctx, order.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 13 {
		t.Fatalf("expected 13 status log entries, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].FromStatus != logs[i-1].ToStatus {
			t.Fatalf("broken audit chain at %d: %s -> %s after %s", i, logs[i].FromStatus, logs[i].ToStatus, logs[i-1].ToStatus)
		}
	}
	if logs[len(logs)-1].ToStatus != enum.BulkOrderStatusCompleted {
		t.Fatalf("expected final log completed, got %s", logs[len(logs)-1].ToStatus)
	}
}

func TestShipBeforeConfirmationFails(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)
	supplier := f.seedSupplier(t)

	order := f.createOrder(t, svc, supplier, 10, 50.0)

	if _, err := svc.Ship(f.ctx, order.ID, &ShipInput{SupplierUserID: supplier.user.ID}); err == nil {
		t.Fatal("expected invalid transition shipping a submitted order")
	}
}

func TestSupplierRejectionIsTerminal(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)
	supplier := f.seedSupplier(t)

	order := f.createOrder(t, svc, supplier, 10, 50.0)

	if _, err := svc.StartSupplierReview(f.ctx, order.ID, supplier.user.ID); err != nil {
		t.Fatalf("start review: %v", err)
	}
	rejected, err := svc.SupplierRespond(f.ctx, order.ID, &SupplierRespondInput{
		SupplierUserID: supplier.user.ID,
		Accept:         false,
		Notes:          "Out of stock",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != enum.BulkOrderStatusSupplierRejected {
		t.Fatalf("expected supplier_rejected, got %s", rejected.Status)
	}

	if _, err := svc.Cancel(f.ctx, order.ID, f.user.ID, "too late"); err == nil {
		t.Fatal("expected error cancelling a terminal order")
	}
}

func TestRecordPaymentExceedsRemaining(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)
	supplier := f.seedSupplier(t)

	order := f.createOrder(t, svc, supplier, 10, 50.0)
	if _, err := svc.StartSupplierReview(f.ctx, order.ID, supplier.user.ID); err != nil {
		t.Fatalf("start review: %v", err)
	}
	if _, err := svc.SupplierRespond(f.ctx, order.ID, &SupplierRespondInput{
		SupplierUserID: supplier.user.ID,
		Accept:         true,
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.BuyerConfirm(f.ctx, order.ID, &BuyerConfirmInput{UserID: f.user.ID}); err != nil {
		t.Fatalf("buyer confirm: %v", err)
	}

	// Order total is 500.00, overpaying must be rejected
	if _, err := svc.RecordPayment(f.ctx, order.ID, &RecordPaymentInput{
		Amount:       600.0,
		Method:       enum.PaymentMethodCash,
		CashAmount:   600.0,
		RecordedByID: f.user.ID,
	}); err == nil {
		t.Fatal("expected error when payment exceeds the remaining amount")
	}
}

func TestMixedPaymentSplitMustBalance(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)

	_, err := svc.RecordPayment(f.ctx, uuid.New(), &RecordPaymentInput{
		Amount:       100.0,
		Method:       enum.PaymentMethodMixed,
		CashAmount:   30.0,
		OnlineAmount: 30.0,
		RecordedByID: f.user.ID,
	})
	if err == nil {
		t.Fatal("expected error for a split that does not add up")
	}
}

func TestRepeatPartialPaymentKeepsState(t *testing.T) {
	f := newTestFixture(t)
	svc := newBulkOrderService(f)
	supplier := f.seedSupplier(t)

	order := f.createOrder(t, svc, supplier, 10, 50.0)
	if _, err := svc.StartSupplierReview(f.ctx, order.ID, supplier.user.ID); err != nil {
		t.Fatalf("start review: %v", err)
	}
	if _, err := svc.SupplierRespond(f.ctx, order.ID, &SupplierRespondInput{
		SupplierUserID: supplier.user.ID,
		Accept:         true,
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.BuyerConfirm(f.ctx, order.ID, &BuyerConfirmInput{UserID: f.user.ID}); err != nil {
		t.Fatalf("buyer confirm: %v", err)
	}

	pay := func(amount float64) *entity.BulkOrder {
		updated, err := svc.RecordPayment(f.ctx, order.ID, &RecordPaymentInput{
			Amount:       amount,
			Method:       enum.PaymentMethodCash,
			CashAmount:   amount,
			RecordedByID: f.user.ID,
		})
		if err != nil {
			t.Fatalf("payment of %.2f: %v", amount, err)
		}
		return updated
	}

	first := pay(100.0)
	if first.Status != enum.BulkOrderStatusPaymentPartial {
		t.Fatalf("expected payment_partial, got %s", first.Status)
	}
	second := pay(100.0)
	if second.Status != enum.BulkOrderStatusPaymentPartial || second.AmountPaid != 20000 {
		t.Fatalf("status %s paid %d after second installment", second.Status, second.AmountPaid)
	}

	logs, err := svc.GetStatusLogs(f.ctx, order.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	partialLogs := 0
	for _, log := range logs {
		if log.ToStatus == enum.BulkOrderStatusPaymentPartial {
			partialLogs++
		}
	}
	if partialLogs != 1 {
		t.Fatalf("expected a single payment_partial log, got %d", partialLogs)
	}
}
