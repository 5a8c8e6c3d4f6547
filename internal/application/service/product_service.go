package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"github.com/sangkips/pharmacare-api/pkg/utils"
)

// ProductService handles the medicine catalogue
type ProductService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, batchRepo repository.BatchRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID           *uuid.UUID
	GenericName          string
	BrandName            *string
	Code                 string
	DosageForm           *string
	Strength             *string
	Unit                 string
	RequiresPrescription bool
	ReorderLevel         int
	CostPrice            float64
	SellingPrice         float64
}

// CreateProduct creates a new catalogue entry
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	if input.GenericName == "" {
		return nil, apperror.NewBadRequestError("Generic name is required")
	}

	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existingProduct, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	unit := input.Unit
	if unit == "" {
		unit = "piece"
	}

	product := &entity.Product{
		OrganizationID:       orgID,
		CategoryID:           input.CategoryID,
		GenericName:          input.GenericName,
		BrandName:            input.BrandName,
		Code:                 code,
		DosageForm:           input.DosageForm,
		Strength:             input.Strength,
		Unit:                 unit,
		RequiresPrescription: input.RequiresPrescription,
		ReorderLevel:         input.ReorderLevel,
		Active:               true,
	}
	product.SetCostPriceFromDecimal(input.CostPrice)
	product.SetSellingPriceFromDecimal(input.SellingPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	CategoryID           *uuid.UUID
	GenericName          *string
	BrandName            *string
	Code                 *string
	DosageForm           *string
	Strength             *string
	Unit                 *string
	RequiresPrescription *bool
	ReorderLevel         *int
	CostPrice            *float64
	SellingPrice         *float64
	Active               *bool
}

// UpdateProduct updates a catalogue entry
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	// Check if new code is unique
	if input.Code != nil && *input.Code != product.Code {
		existingProduct, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.GenericName != nil {
		product.GenericName = *input.GenericName
	}
	if input.BrandName != nil {
		product.BrandName = input.BrandName
	}
	if input.DosageForm != nil {
		product.DosageForm = input.DosageForm
	}
	if input.Strength != nil {
		product.Strength = input.Strength
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.RequiresPrescription != nil {
		product.RequiresPrescription = *input.RequiresPrescription
	}
	if input.ReorderLevel != nil {
		product.ReorderLevel = *input.ReorderLevel
	}
	if input.CostPrice != nil {
		product.SetCostPriceFromDecimal(*input.CostPrice)
	}
	if input.SellingPrice != nil {
		product.SetSellingPriceFromDecimal(*input.SellingPrice)
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct soft-deletes a product from the catalogue
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// LowStockProduct pairs a product with its on-hand total
type LowStockProduct struct {
	Product   entity.Product `json:"product"`
	Available int            `json:"available"`
}

// GetLowStockProducts returns active products whose on-hand batch total at
// the branch has fallen to the reorder level or below.
func (s *ProductService) GetLowStockProducts(ctx context.Context, branchID uuid.UUID) ([]LowStockProduct, error) {
	products, _, err := s.productRepo.List(ctx, &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1000},
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	low := make([]LowStockProduct, 0)
	for i := range products {
		product := &products[i]
		if product.ReorderLevel <= 0 {
			continue
		}
		available, err := s.batchRepo.TotalAvailable(ctx, product.ID, branchID)
		if err != nil {
			return nil, err
		}
		if available <= product.ReorderLevel {
			low = append(low, LowStockProduct{Product: *product, Available: available})
		}
	}
	return low, nil
}
