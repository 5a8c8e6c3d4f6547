package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/config"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
)

func newSaleServiceWith(f *testFixture, posCfg config.POSConfig) *SaleService {
	batchRepo := infraRepo.NewBatchRepository(f.db)
	return NewSaleService(
		infraRepo.NewSaleRepository(f.db),
		infraRepo.NewProductRepository(f.db),
		infraRepo.NewPatientRepository(f.db),
		batchRepo,
		infraRepo.NewStockEntryRepository(f.db),
		infraRepo.NewSettingsRepository(f.db),
		NewAllocatorService(batchRepo),
		infraRepo.NewTransactionManager(f.db),
		posCfg,
	)
}

func newSaleService(f *testFixture) *SaleService {
	return newSaleServiceWith(f, config.POSConfig{DefaultTaxRate: 13})
}

func (f *testFixture) saveSale(t *testing.T, svc *SaleService, input *SaveSaleInput) *entity.Sale {
	t.Helper()
	if input.BranchID == uuid.Nil {
		input.BranchID = f.branch.ID
	}
	input.CreatedByID = f.user.ID
	sale, err := svc.SavePending(f.ctx, input)
	if err != nil {
		t.Fatalf("save pending: %v", err)
	}
	return sale
}

func TestSavePendingComputesTotals(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	batch := f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Discount: 10.0,
		Items:    []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	if sale.Status != enum.SaleStatusPending {
		t.Fatalf("expected pending status, got %v", sale.Status)
	}
	if !strings.HasPrefix(sale.SaleNumber, "PENDING_") {
		t.Fatalf("expected PENDING_ sale number, got %s", sale.SaleNumber)
	}
	if sale.SubTotal != 10000 || sale.Discount != 1000 || sale.Tax != 1170 || sale.Total != 10170 {
		t.Fatalf("totals = sub %d discount %d tax %d total %d", sale.SubTotal, sale.Discount, sale.Tax, sale.Total)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(sale.Items))
	}
	item := sale.Items[0]
	if len(item.AllocatedBatches) != 1 || item.AllocatedBatches[0].BatchID != batch.ID || item.AllocatedBatches[0].Quantity != 10 {
		t.Fatalf("unexpected allocation snapshot %+v", item.AllocatedBatches)
	}

	// Saving a pending bill must not touch stock
	if got := f.batchQuantity(t, batch.ID); got != 100 {
		t.Fatalf("batch quantity = %d, want 100", got)
	}
}

func TestCompletePartialPaymentCreatesCredit(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	batch := f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		PatientName:  "Jane Doe",
		PatientPhone: "0700000001",
		Discount:     10.0,
		Items:        []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	completed, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 50.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if completed.Status != enum.SaleStatusCompleted {
		t.Fatalf("expected completed status, got %v", completed.Status)
	}
	if !strings.HasPrefix(completed.SaleNumber, "BILL_") {
		t.Fatalf("expected BILL_ number after completion, got %s", completed.SaleNumber)
	}
	if completed.AmountPaid != 5000 || completed.Credit != 5170 || completed.Change != 0 {
		t.Fatalf("paid %d credit %d change %d", completed.AmountPaid, completed.Credit, completed.Change)
	}
	if completed.PatientID == nil {
		t.Fatal("expected walk-in patient to be registered")
	}

	if got := f.batchQuantity(t, batch.ID); got != 90 {
		t.Fatalf("batch quantity = %d, want 90", got)
	}

	var entries []entity.StockEntry
	if err := f.db.Where("entry_type = ?", enum.StockEntryTypeSale).Find(&entries).Error; err != nil {
		t.Fatalf("load stock entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Quantity != -10 || entries[0].CurrentQuantity != 90 {
		t.Fatalf("unexpected stock trail %+v", entries)
	}

	var payments []entity.Payment
	if err := f.db.Where("sale_id = ?", sale.ID).Find(&payments).Error; err != nil {
		t.Fatalf("load payments: %v", err)
	}
	if len(payments) != 1 || payments[0].Amount != 5000 {
		t.Fatalf("unexpected payments %+v", payments)
	}
}

func TestCompleteCreditRequiresPatient(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	batch := f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	_, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 50.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	})
	if err == nil {
		t.Fatal("expected error for credit sale without patient")
	}

	// The transaction must roll back the stock deduction
	if got := f.batchQuantity(t, batch.ID); got != 100 {
		t.Fatalf("batch quantity = %d, want 100 after rollback", got)
	}
}

func TestCompleteOverpaymentReturnsChange(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Discount: 10.0,
		Items:    []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	completed, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 110.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.AmountPaid != 11000 || completed.Change != 830 || completed.Credit != 0 {
		t.Fatalf("paid %d change %d credit %d", completed.AmountPaid, completed.Change, completed.Credit)
	}
}

func TestCompleteNonPendingFails(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 5}},
	})

	input := &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 100.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	}
	if _, err := svc.Complete(f.ctx, sale.ID, input); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.Complete(f.ctx, sale.ID, input); err == nil {
		t.Fatal("expected error completing an already completed sale")
	}
}

func TestUpdatePendingReplacesItems(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	updated, err := svc.UpdatePending(f.ctx, sale.ID, &SaveSaleInput{
		BranchID:    f.branch.ID,
		CreatedByID: f.user.ID,
		Items:       []SaleItemInput{{ProductID: f.product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("update pending: %v", err)
	}

	if updated.SubTotal != 4000 || updated.Tax != 520 || updated.Total != 4520 {
		t.Fatalf("totals = sub %d tax %d total %d", updated.SubTotal, updated.Tax, updated.Total)
	}
	if len(updated.Items) != 1 || updated.Items[0].Quantity != 4 {
		t.Fatalf("expected single replaced item, got %+v", updated.Items)
	}
}

func TestDeleteCompletedRestoresStock(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	batch := f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})
	if _, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 120.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := f.batchQuantity(t, batch.ID); got != 90 {
		t.Fatalf("batch quantity = %d, want 90", got)
	}

	if err := svc.Delete(f.ctx, sale.ID, enum.UserRolePharmacist, f.user.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden for pharmacist, got %v", err)
	}

	if err := svc.Delete(f.ctx, sale.ID, enum.UserRoleAdmin, f.user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.batchQuantity(t, batch.ID); got != 100 {
		t.Fatalf("batch quantity = %d, want 100 after restore", got)
	}
	if _, err := svc.GetSale(f.ctx, sale.ID); err == nil {
		t.Fatal("expected deleted sale to be gone")
	}

	var returns []entity.StockEntry
	if err := f.db.Where("entry_type = ?", enum.StockEntryTypeReturn).Find(&returns).Error; err != nil {
		t.Fatalf("load returns: %v", err)
	}
	if len(returns) != 1 || returns[0].Quantity != 10 || returns[0].CurrentQuantity != 100 {
		t.Fatalf("unexpected return trail %+v", returns)
	}
}

func TestPayCreditReducesOutstanding(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		PatientName:  "John Owago",
		PatientPhone: "0700000002",
		Discount:     10.0,
		Items:        []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})
	if _, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 50.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	paid, err := svc.PayCredit(f.ctx, sale.ID, 20.0, enum.PaymentMethodMobile, nil, f.user.ID)
	if err != nil {
		t.Fatalf("pay credit: %v", err)
	}
	if paid.AmountPaid != 7000 || paid.Credit != 3170 {
		t.Fatalf("paid %d credit %d", paid.AmountPaid, paid.Credit)
	}

	if _, err := svc.PayCredit(f.ctx, sale.ID, 100.0, enum.PaymentMethodCash, nil, f.user.ID); err == nil {
		t.Fatal("expected error when payment exceeds outstanding credit")
	}
}

func TestValidateStockReportsAvailability(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 30, 1000, daysFromNow(30))

	results, err := svc.ValidateStock(f.ctx, f.branch.ID, []SaleItemInput{
		{ProductID: f.product.ID, Quantity: 20},
		{ProductID: f.product.ID, Quantity: 50},
	})
	if err != nil {
		t.Fatalf("validate stock: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Sufficient || results[0].Available != 30 {
		t.Fatalf("first line %+v", results[0])
	}
	if results[1].Sufficient || results[1].Available != 30 {
		t.Fatalf("second line %+v", results[1])
	}
}

func TestCompleteClearedSnapshotFails(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	batch := f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	var item entity.SaleItem
	if err := f.db.First(&item, "sale_id = ?", sale.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	item.AllocatedBatches = entity.BatchAllocationList{}
	if err := f.db.Save(&item).Error; err != nil {
		t.Fatalf("clear snapshot: %v", err)
	}

	_, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 120.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	})
	if err == nil {
		t.Fatal("expected error when the snapshot no longer covers the line quantity")
	}

	if got := f.batchQuantity(t, batch.ID); got != 100 {
		t.Fatalf("batch quantity = %d, want 100", got)
	}
	reloaded, err := svc.GetSale(f.ctx, sale.ID)
	if err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.Status != enum.SaleStatusPending {
		t.Fatalf("expected sale to stay pending, got %v", reloaded.Status)
	}
}

func TestCompleteReallocatesStaleSnapshot(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleServiceWith(f, config.POSConfig{DefaultTaxRate: 13, ReallocateOnMismatch: true})
	batch := f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	var item entity.SaleItem
	if err := f.db.First(&item, "sale_id = ?", sale.ID).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	item.AllocatedBatches = entity.BatchAllocationList{}
	if err := f.db.Save(&item).Error; err != nil {
		t.Fatalf("clear snapshot: %v", err)
	}

	completed, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 120.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if completed.SubTotal != 10000 || completed.Total != 11300 {
		t.Fatalf("totals = sub %d total %d", completed.SubTotal, completed.Total)
	}
	if got := f.batchQuantity(t, batch.ID); got != 90 {
		t.Fatalf("batch quantity = %d, want 90 after reallocation", got)
	}
}

func TestCompleteSplitPaymentsMarksMixed(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		PatientName:  "Mary Atieno",
		PatientPhone: "0700000003",
		Discount:     10.0,
		Items:        []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	ref := "MPESA-4F7K2"
	completed, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments: []SalePaymentInput{
			{Amount: 30.0, Method: enum.PaymentMethodCash},
			{Amount: 40.0, Method: enum.PaymentMethodMobile, ReferenceNumber: &ref},
		},
		CompletedByID: f.user.ID,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if completed.PaymentMethod != enum.PaymentMethodMixed {
		t.Fatalf("payment method = %v, want mixed", completed.PaymentMethod)
	}
	if completed.AmountPaid != 7000 || completed.Credit != 3170 {
		t.Fatalf("paid %d credit %d", completed.AmountPaid, completed.Credit)
	}

	var payments []entity.Payment
	if err := f.db.Where("sale_id = ?", sale.ID).Order("amount").Find(&payments).Error; err != nil {
		t.Fatalf("load payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payment rows, got %d", len(payments))
	}
	if payments[0].Amount != 3000 || payments[0].Method != enum.PaymentMethodCash {
		t.Fatalf("first payment %+v", payments[0])
	}
	if payments[1].Amount != 4000 || payments[1].Method != enum.PaymentMethodMobile || payments[1].ReferenceNumber == nil {
		t.Fatalf("second payment %+v", payments[1])
	}
}

func TestPayCreditKeepsFractionalCents(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	sale := f.saveSale(t, svc, &SaveSaleInput{
		PatientName:  "Peter Otieno",
		PatientPhone: "0700000004",
		Items:        []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})
	if _, err := svc.Complete(f.ctx, sale.ID, &CompleteSaleInput{
		Payments:      []SalePaymentInput{{Amount: 50.0, Method: enum.PaymentMethodCash}},
		CompletedByID: f.user.ID,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// 0.29 must land as exactly 29 cents, not truncate to 28
	paid, err := svc.PayCredit(f.ctx, sale.ID, 0.29, enum.PaymentMethodCash, nil, f.user.ID)
	if err != nil {
		t.Fatalf("pay credit: %v", err)
	}
	if paid.AmountPaid != 5029 || paid.Credit != 6271 {
		t.Fatalf("paid %d credit %d", paid.AmountPaid, paid.Credit)
	}
}

func TestInclusiveTaxDoesNotRaiseTotal(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 100, 1000, daysFromNow(30))

	settings := entity.POSSettings{
		OrganizationID: f.org.ID,
		BranchID:       &f.branch.ID,
		TaxRate:        13,
		TaxType:        enum.TaxTypeInclusive,
	}
	if err := f.db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	sale := f.saveSale(t, svc, &SaveSaleInput{
		Items: []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})

	// Inclusive tax is extracted from the prices: round(10000 * 13 / 113)
	if sale.Tax != 1150 {
		t.Fatalf("tax = %d, want 1150", sale.Tax)
	}
	if sale.Total != 10000 {
		t.Fatalf("total = %d, want 10000", sale.Total)
	}
}

func TestSavePendingInsufficientStockFails(t *testing.T) {
	f := newTestFixture(t)
	svc := newSaleService(f)
	f.seedBatch(t, 5, 1000, daysFromNow(30))

	_, err := svc.SavePending(f.ctx, &SaveSaleInput{
		BranchID:    f.branch.ID,
		CreatedByID: f.user.ID,
		Items:       []SaleItemInput{{ProductID: f.product.ID, Quantity: 10}},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
}
