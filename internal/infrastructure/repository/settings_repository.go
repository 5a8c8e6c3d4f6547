package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new POS settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// GetForBranch returns branch-level settings when present, falling back to
// the organization-level row.
func (r *settingsRepository) GetForBranch(ctx context.Context, organizationID uuid.UUID, branchID *uuid.UUID) (*entity.POSSettings, error) {
	var settings entity.POSSettings

	if branchID != nil {
		err := r.conn(ctx).
			First(&settings, "organization_id = ? AND branch_id = ?", organizationID, *branchID).Error
		if err == nil {
			return &settings, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := r.conn(ctx).
		First(&settings, "organization_id = ? AND branch_id IS NULL", organizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settings, err
}

func (r *settingsRepository) Create(ctx context.Context, settings *entity.POSSettings) error {
	return r.conn(ctx).Create(settings).Error
}

func (r *settingsRepository) Update(ctx context.Context, settings *entity.POSSettings) error {
	return r.conn(ctx).Save(settings).Error
}
