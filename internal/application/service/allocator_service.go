package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
)

// AllocatorService plans how a requested quantity of a product is covered
// by the batches on hand. Allocation walks batches first-expiry-first-out
// and is read-only: it produces a snapshot, it never changes quantities.
type AllocatorService struct {
	batchRepo repository.BatchRepository
}

// NewAllocatorService creates a new allocator service
func NewAllocatorService(batchRepo repository.BatchRepository) *AllocatorService {
	return &AllocatorService{batchRepo: batchRepo}
}

// Allocate plans coverage for quantity units of a product at a branch.
// Batches are consumed in expiry order, soonest first, with undated
// batches last. Returns an insufficient stock error naming the available
// total when the batches cannot cover the request.
func (s *AllocatorService) Allocate(ctx context.Context, productID, branchID uuid.UUID, quantity int) (entity.BatchAllocationList, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be greater than zero")
	}

	batches, err := s.batchRepo.ListAllocatable(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}

	allocations := make(entity.BatchAllocationList, 0, len(batches))
	remaining := quantity
	available := 0

	for i := range batches {
		batch := &batches[i]
		available += batch.Quantity
		if remaining <= 0 {
			continue
		}

		take := batch.Quantity
		if take > remaining {
			take = remaining
		}

		allocations = append(allocations, entity.BatchAllocation{
			BatchID:     batch.ID,
			BatchNumber: batch.BatchNumber,
			Quantity:    take,
			UnitPrice:   batch.UnitPrice(),
		})
		remaining -= take
	}

	if remaining > 0 {
		return nil, apperror.NewInsufficientStockError(available, quantity)
	}

	return allocations, nil
}

// Deallocate plans how returned units go back into batches. The walk runs
// in reverse expiry order so the longest-dated stock is refilled first.
func (s *AllocatorService) Deallocate(ctx context.Context, productID, branchID uuid.UUID, quantity int) (entity.BatchAllocationList, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be greater than zero")
	}

	batches, err := s.batchRepo.ListRestorable(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}

	allocations := make(entity.BatchAllocationList, 0, len(batches))
	remaining := quantity

	for i := range batches {
		batch := &batches[i]
		if remaining <= 0 {
			break
		}

		// Refill only up to what the batch originally held
		room := batch.InitialQuantity - batch.Quantity
		if room <= 0 {
			continue
		}

		give := room
		if give > remaining {
			give = remaining
		}

		allocations = append(allocations, entity.BatchAllocation{
			BatchID:     batch.ID,
			BatchNumber: batch.BatchNumber,
			Quantity:    give,
			UnitPrice:   batch.UnitPrice(),
		})
		remaining -= give
	}

	// Anything beyond the batches' original capacity goes to the newest batch
	if remaining > 0 && len(batches) > 0 {
		last := &batches[0]
		if len(allocations) > 0 && allocations[0].BatchID == last.ID {
			allocations[0].Quantity += remaining
		} else {
			allocations = append(entity.BatchAllocationList{{
				BatchID:     last.ID,
				BatchNumber: last.BatchNumber,
				Quantity:    remaining,
				UnitPrice:   last.UnitPrice(),
			}}, allocations...)
		}
		remaining = 0
	}

	if remaining > 0 {
		return nil, apperror.NewBadRequestError("No batches exist to receive the returned stock")
	}

	return allocations, nil
}

// Validate re-checks a previously taken snapshot against the batches as
// they stand now. Each allocated batch must still exist, still be active
// and still hold at least the snapshot quantity.
func (s *AllocatorService) Validate(ctx context.Context, allocations entity.BatchAllocationList) error {
	if len(allocations) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(allocations))
	for i, a := range allocations {
		ids[i] = a.BatchID
	}

	batches, err := s.batchRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	batchMap := make(map[uuid.UUID]*entity.Batch, len(batches))
	for i := range batches {
		batchMap[batches[i].ID] = &batches[i]
	}

	for _, a := range allocations {
		batch, exists := batchMap[a.BatchID]
		if !exists {
			return apperror.NewAllocationMismatchError(fmt.Sprintf("batch %s no longer exists", a.BatchNumber))
		}
		if !batch.IsActive {
			return apperror.NewAllocationMismatchError(fmt.Sprintf("batch %s is no longer active", a.BatchNumber))
		}
		if batch.Quantity < a.Quantity {
			return apperror.NewAllocationMismatchError(
				fmt.Sprintf("batch %s holds %d units, %d allocated", a.BatchNumber, batch.Quantity, a.Quantity))
		}
	}

	return nil
}
