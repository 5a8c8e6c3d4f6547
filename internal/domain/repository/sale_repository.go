package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetBySaleNumber(ctx context.Context, saleNumber string) (*entity.Sale, error)
	// GetWithDetails loads a sale with its items, payments and patient
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	// Delete hard-deletes a sale together with its items and payments
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListPending returns pending sales (saved bills) for a branch
	ListPending(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	DeleteItemsBySaleID(ctx context.Context, saleID uuid.UUID) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	PatientID  *uuid.UUID
	BranchID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	OnlyCredit bool
	SortBy     string
	SortOrder  string
}
