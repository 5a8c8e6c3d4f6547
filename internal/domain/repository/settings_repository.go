package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
)

// SettingsRepository defines the interface for POS settings data access
type SettingsRepository interface {
	// GetForBranch returns the branch-level settings when present, the
	// organization-level settings otherwise
	GetForBranch(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) (*entity.POSSettings, error)
	Create(ctx context.Context, settings *entity.POSSettings) error
	Update(ctx context.Context, settings *entity.POSSettings) error
}
