package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations. Users are
// provisioned by the upstream identity system; this service reads them for
// attribution and supplier lookups.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error)
	// ListSuppliers returns active supplier accounts across the platform
	ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error)
}
