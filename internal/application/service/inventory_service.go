package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// InventoryService handles batch receipts, adjustments and the stock
// movement trail.
type InventoryService struct {
	batchRepo          repository.BatchRepository
	productRepo        repository.ProductRepository
	stockEntryRepo     repository.StockEntryRepository
	customSupplierRepo repository.CustomSupplierRepository
	userRepo           repository.UserRepository
	txManager          repository.TransactionManager
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	batchRepo repository.BatchRepository,
	productRepo repository.ProductRepository,
	stockEntryRepo repository.StockEntryRepository,
	customSupplierRepo repository.CustomSupplierRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
) *InventoryService {
	return &InventoryService{
		batchRepo:          batchRepo,
		productRepo:        productRepo,
		stockEntryRepo:     stockEntryRepo,
		customSupplierRepo: customSupplierRepo,
		userRepo:           userRepo,
		txManager:          txManager,
	}
}

// ReceiveBatchInput represents a stock receipt
type ReceiveBatchInput struct {
	ProductID         uuid.UUID
	BranchID          uuid.UUID
	Quantity          int
	CostPrice         float64
	SellingPrice      *float64
	BatchNumber       string
	ExpiryDate        *time.Time
	ManufacturingDate *time.Time
	SupplierType      enum.SupplierType
	SupplierUserID    *uuid.UUID
	CustomSupplierID  *uuid.UUID
	Location          *string
	CreatedByID       uuid.UUID
}

// ReceiveBatch records a received lot as a new batch and writes a purchase
// entry to the stock trail. Receipts never merge into existing batches.
func (s *InventoryService) ReceiveBatch(ctx context.Context, input *ReceiveBatchInput) (*entity.Batch, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}

	if input.Quantity <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be greater than zero")
	}
	if input.BatchNumber == "" {
		return nil, apperror.NewBadRequestError("Batch number is required")
	}
	if input.ExpiryDate != nil && !input.ExpiryDate.After(time.Now()) {
		return nil, apperror.NewBadRequestError("Expiry date must be in the future")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.validateSupplier(ctx, input.SupplierType, input.SupplierUserID, input.CustomSupplierID); err != nil {
		return nil, err
	}

	var sellingCents *int64
	if input.SellingPrice != nil {
		v := toCents(*input.SellingPrice)
		sellingCents = &v
	}

	batch := &entity.Batch{
		OrganizationID:    orgID,
		BranchID:          input.BranchID,
		ProductID:         input.ProductID,
		Quantity:          input.Quantity,
		InitialQuantity:   input.Quantity,
		CostPrice:         toCents(input.CostPrice),
		SellingPrice:      sellingCents,
		BatchNumber:       input.BatchNumber,
		ExpiryDate:        input.ExpiryDate,
		ManufacturingDate: input.ManufacturingDate,
		SupplierType:      input.SupplierType,
		SupplierUserID:    input.SupplierUserID,
		CustomSupplierID:  input.CustomSupplierID,
		Location:          input.Location,
		IsActive:          true,
		CreatedByID:       input.CreatedByID,
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		return s.stockEntryRepo.Create(ctx, &entity.StockEntry{
			OrganizationID:   orgID,
			BranchID:         input.BranchID,
			ProductID:        input.ProductID,
			BatchID:          &batch.ID,
			EntryType:        enum.StockEntryTypePurchase,
			Quantity:         input.Quantity,
			PreviousQuantity: 0,
			CurrentQuantity:  input.Quantity,
			ReferenceNumber:  batch.BatchNumber,
			UnitCost:         batch.CostPrice,
			CreatedByID:      input.CreatedByID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.batchRepo.GetByID(ctx, batch.ID)
}

// validateSupplier enforces the supplier union on a batch: exactly one of
// the registered or custom supplier references must match the type.
func (s *InventoryService) validateSupplier(ctx context.Context, supplierType enum.SupplierType, supplierUserID, customSupplierID *uuid.UUID) error {
	switch supplierType {
	case enum.SupplierTypeRegistered:
		if supplierUserID == nil || customSupplierID != nil {
			return apperror.NewBadRequestError("Registered supplier batches require supplier_user_id only")
		}
		supplier, err := s.userRepo.GetByID(ctx, *supplierUserID)
		if err != nil {
			return err
		}
		if supplier == nil || !supplier.IsSupplier() {
			return apperror.NewNotFoundError("Supplier")
		}
	case enum.SupplierTypeCustom:
		if customSupplierID == nil || supplierUserID != nil {
			return apperror.NewBadRequestError("Custom supplier batches require custom_supplier_id only")
		}
		supplier, err := s.customSupplierRepo.GetByID(ctx, *customSupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return apperror.NewNotFoundError("Custom supplier")
		}
	default:
		return apperror.NewBadRequestError("Invalid supplier type")
	}
	return nil
}

// AdjustStockInput represents a manual stock correction on a batch
type AdjustStockInput struct {
	BatchID     uuid.UUID
	NewQuantity int
	Reason      string
	CreatedByID uuid.UUID
}

// AdjustStock sets a batch to a counted quantity and records the delta as
// an adjustment entry.
func (s *InventoryService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.Batch, error) {
	if input.NewQuantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	batch, err := s.batchRepo.GetByID(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Batch")
	}

	delta := input.NewQuantity - batch.Quantity
	if delta == 0 {
		return batch, nil
	}

	previous := batch.Quantity
	batch.Quantity = input.NewQuantity
	if input.NewQuantity > batch.InitialQuantity {
		batch.InitialQuantity = input.NewQuantity
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.batchRepo.Update(ctx, batch); err != nil {
			return err
		}
		return s.stockEntryRepo.Create(ctx, &entity.StockEntry{
			OrganizationID:   batch.OrganizationID,
			BranchID:         batch.BranchID,
			ProductID:        batch.ProductID,
			BatchID:          &batch.ID,
			EntryType:        enum.StockEntryTypeAdjustment,
			Quantity:         delta,
			PreviousQuantity: previous,
			CurrentQuantity:  input.NewQuantity,
			ReferenceNumber:  input.Reason,
			UnitCost:         batch.CostPrice,
			CreatedByID:      input.CreatedByID,
		})
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

// GetBatch retrieves a batch by ID
func (s *InventoryService) GetBatch(ctx context.Context, id uuid.UUID) (*entity.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Batch")
	}
	return batch, nil
}

// ListBatches lists batches with filtering
func (s *InventoryService) ListBatches(ctx context.Context, params *repository.BatchFilterParams) (*pagination.PaginatedResult[entity.Batch], error) {
	batches, total, err := s.batchRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(batches, pag), nil
}

// UpdateBatchInput represents the editable fields of a batch. Quantities
// move only through receipts, sales and adjustments.
type UpdateBatchInput struct {
	SellingPrice *float64
	ExpiryDate   *time.Time
	Location     *string
	IsActive     *bool
}

// UpdateBatch updates a batch's pricing, expiry, location or active flag
func (s *InventoryService) UpdateBatch(ctx context.Context, id uuid.UUID, input *UpdateBatchInput) (*entity.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, apperror.NewNotFoundError("Batch")
	}

	if input.SellingPrice != nil {
		v := toCents(*input.SellingPrice)
		batch.SellingPrice = &v
	}
	if input.ExpiryDate != nil {
		batch.ExpiryDate = input.ExpiryDate
	}
	if input.Location != nil {
		batch.Location = input.Location
	}
	if input.IsActive != nil {
		batch.IsActive = *input.IsActive
	}

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// GetAvailableStock returns the total sellable quantity of a product at a branch
func (s *InventoryService) GetAvailableStock(ctx context.Context, productID, branchID uuid.UUID) (int, error) {
	return s.batchRepo.TotalAvailable(ctx, productID, branchID)
}

// ListExpiringBatches returns active batches expiring within the window
func (s *InventoryService) ListExpiringBatches(ctx context.Context, branchID *uuid.UUID, withinDays int) ([]entity.Batch, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, withinDays)
	return s.batchRepo.ListExpiring(ctx, branchID, cutoff)
}

// ListStockEntries lists the stock movement trail with filtering
func (s *InventoryService) ListStockEntries(ctx context.Context, params *repository.StockEntryFilterParams) (*pagination.PaginatedResult[entity.StockEntry], error) {
	entries, total, err := s.stockEntryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}

// CreateCustomSupplierInput represents a new free-text supplier
type CreateCustomSupplierInput struct {
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// CreateCustomSupplier adds a supplier to the organization's registry
func (s *InventoryService) CreateCustomSupplier(ctx context.Context, input *CreateCustomSupplierInput) (*entity.CustomSupplier, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Supplier name is required")
	}

	supplier := &entity.CustomSupplier{
		OrganizationID: orgID,
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
	}
	if err := s.customSupplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateCustomSupplier updates a supplier in the registry
func (s *InventoryService) UpdateCustomSupplier(ctx context.Context, id uuid.UUID, input *CreateCustomSupplierInput) (*entity.CustomSupplier, error) {
	supplier, err := s.customSupplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Custom supplier")
	}

	if input.Name != "" {
		supplier.Name = input.Name
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}

	if err := s.customSupplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteCustomSupplier removes a supplier from the registry
func (s *InventoryService) DeleteCustomSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.customSupplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Custom supplier")
	}
	return s.customSupplierRepo.Delete(ctx, id)
}

// ListCustomSuppliers lists the organization's supplier registry
func (s *InventoryService) ListCustomSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.CustomSupplier], error) {
	suppliers, total, err := s.customSupplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}
