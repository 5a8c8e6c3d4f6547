package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// BatchRepository defines the interface for batch (lot) data operations
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Batch, error)
	// GetByIDs retrieves multiple batches by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Batch, error)
	Update(ctx context.Context, batch *entity.Batch) error
	List(ctx context.Context, params *BatchFilterParams) ([]entity.Batch, int64, error)
	// ListAllocatable returns the active, non-empty batches for a product at
	// a branch in first-expiry-first-out order: expiry date ascending with
	// NULL expiries last, then creation time ascending.
	ListAllocatable(ctx context.Context, productID, branchID uuid.UUID) ([]entity.Batch, error)
	// ListRestorable returns the same batches ordered by expiry descending,
	// used when returning stock.
	ListRestorable(ctx context.Context, productID, branchID uuid.UUID) ([]entity.Batch, error)
	// TotalAvailable sums the quantity of active batches for a product at a branch
	TotalAvailable(ctx context.Context, productID, branchID uuid.UUID) (int, error)
	// AtomicReduceQuantity decrements stock only if the batch holds enough.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock, (false, err) on error.
	AtomicReduceQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	// IncrementQuantity adds stock back to a batch (returns/deallocations)
	IncrementQuantity(ctx context.Context, id uuid.UUID, amount int) error
	// ListExpiring returns active batches expiring before the cutoff
	ListExpiring(ctx context.Context, branchID *uuid.UUID, before time.Time) ([]entity.Batch, error)
}

// BatchFilterParams contains filtering parameters for batch queries
type BatchFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	ProductID      *uuid.UUID
	BranchID       *uuid.UUID
	SupplierUserID *uuid.UUID
	IncludeEmpty   bool
	SortBy         string
	SortOrder      string
}

// CustomSupplierRepository defines the interface for the free-text supplier registry
type CustomSupplierRepository interface {
	Create(ctx context.Context, supplier *entity.CustomSupplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CustomSupplier, error)
	Update(ctx context.Context, supplier *entity.CustomSupplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.CustomSupplier, int64, error)
}
