package service

import (
	"errors"
	"testing"

	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
)

func TestAllocateFirstExpiryFirst(t *testing.T) {
	f := newTestFixture(t)
	allocator := NewAllocatorService(infraRepo.NewBatchRepository(f.db))

	early := f.seedBatch(t, 100, 1000, daysFromNow(30))
	late := f.seedBatch(t, 50, 1200, daysFromNow(60))

	allocations, err := allocator.Allocate(f.ctx, f.product.ID, f.branch.ID, 120)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations got %d", len(allocations))
	}
	if allocations[0].BatchID != early.ID || allocations[0].Quantity != 100 {
		t.Fatalf("expected 100 from earliest batch, got %d from %s", allocations[0].Quantity, allocations[0].BatchID)
	}
	if allocations[1].BatchID != late.ID || allocations[1].Quantity != 20 {
		t.Fatalf("expected 20 from later batch, got %d from %s", allocations[1].Quantity, allocations[1].BatchID)
	}
	if allocations[0].UnitPrice != 1000 || allocations[1].UnitPrice != 1200 {
		t.Fatalf("expected batch prices in snapshot, got %d and %d", allocations[0].UnitPrice, allocations[1].UnitPrice)
	}
}

func TestAllocateNilExpiryComesLast(t *testing.T) {
	f := newTestFixture(t)
	allocator := NewAllocatorService(infraRepo.NewBatchRepository(f.db))

	noExpiry := f.seedBatch(t, 50, 1000, nil)
	dated := f.seedBatch(t, 50, 1000, daysFromNow(90))

	allocations, err := allocator.Allocate(f.ctx, f.product.ID, f.branch.ID, 60)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations got %d", len(allocations))
	}
	if allocations[0].BatchID != dated.ID {
		t.Fatalf("expected dated batch first, got %s", allocations[0].BatchID)
	}
	if allocations[1].BatchID != noExpiry.ID || allocations[1].Quantity != 10 {
		t.Fatalf("expected 10 from undated batch, got %d from %s", allocations[1].Quantity, allocations[1].BatchID)
	}
}

func TestAllocateInsufficientStock(t *testing.T) {
	f := newTestFixture(t)
	allocator := NewAllocatorService(infraRepo.NewBatchRepository(f.db))

	batch := f.seedBatch(t, 10, 1000, daysFromNow(30))

	_, err := allocator.Allocate(f.ctx, f.product.ID, f.branch.ID, 20)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if got := f.batchQuantity(t, batch.ID); got != 10 {
		t.Fatalf("allocation must not mutate stock, quantity = %d", got)
	}
}

func TestAllocateSkipsInactiveAndEmptyBatches(t *testing.T) {
	f := newTestFixture(t)
	allocator := NewAllocatorService(infraRepo.NewBatchRepository(f.db))

	empty := f.seedBatch(t, 0, 1000, daysFromNow(10))
	_ = empty
	inactive := f.seedBatch(t, 100, 1000, daysFromNow(20))
	if err := f.db.Model(&inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	usable := f.seedBatch(t, 30, 1000, daysFromNow(40))

	allocations, err := allocator.Allocate(f.ctx, f.product.ID, f.branch.ID, 30)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(allocations) != 1 || allocations[0].BatchID != usable.ID {
		t.Fatalf("expected single allocation from usable batch, got %+v", allocations)
	}
}

func TestValidateDetectsDrainedBatch(t *testing.T) {
	f := newTestFixture(t)
	batchRepo := infraRepo.NewBatchRepository(f.db)
	allocator := NewAllocatorService(batchRepo)

	batch := f.seedBatch(t, 20, 1000, daysFromNow(30))

	allocations, err := allocator.Allocate(f.ctx, f.product.ID, f.branch.ID, 20)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := allocator.Validate(f.ctx, allocations); err != nil {
		t.Fatalf("validate fresh snapshot: %v", err)
	}

	// A concurrent sale drains the batch underneath the snapshot
	if ok, err := batchRepo.AtomicReduceQuantity(f.ctx, batch.ID, 15); err != nil || !ok {
		t.Fatalf("reduce: ok=%v err=%v", ok, err)
	}
	if err := allocator.Validate(f.ctx, allocations); err == nil {
		t.Fatal("expected mismatch error after concurrent drain")
	}
}

func TestDeallocateRefillsNewestFirst(t *testing.T) {
	f := newTestFixture(t)
	allocator := NewAllocatorService(infraRepo.NewBatchRepository(f.db))

	drained := f.seedBatch(t, 100, 1000, daysFromNow(30))
	if err := f.db.Model(&drained).Update("quantity", 40).Error; err != nil {
		t.Fatalf("drain: %v", err)
	}
	full := f.seedBatch(t, 50, 1000, daysFromNow(60))

	allocations, err := allocator.Deallocate(f.ctx, f.product.ID, f.branch.ID, 30)
	if err != nil {
		t.Fatalf("deallocate: %v", err)
	}
	// The newer batch is already at capacity, so the return lands on the
	// drained one
	if len(allocations) != 1 || allocations[0].BatchID != drained.ID || allocations[0].Quantity != 30 {
		t.Fatalf("expected 30 back into drained batch, got %+v", allocations)
	}
	_ = full
}
