package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/config"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
)

// SettingsService handles point-of-sale settings. Settings resolve from
// the branch level down to the organization level.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	posCfg       config.POSConfig
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, posCfg config.POSConfig) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		posCfg:       posCfg,
	}
}

// GetSettings retrieves POS settings for a branch, creating organization
// defaults when none exist yet.
func (s *SettingsService) GetSettings(ctx context.Context, branchID *uuid.UUID) (*entity.POSSettings, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.GetForBranch(ctx, orgID, branchID)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		defaults := entity.DefaultPOSSettings(orgID)
		defaults.TaxRate = s.posCfg.DefaultTaxRate
		if err := s.settingsRepo.Create(ctx, &defaults); err != nil {
			return nil, err
		}
		settings = &defaults
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating POS settings
type UpdateSettingsInput struct {
	BranchID      *uuid.UUID
	BusinessName  *string
	Address       *string
	Phone         *string
	Email         *string
	ReceiptFooter *string
	TaxRate       *float64
	TaxType       *int
	AcceptCash    *bool
	AcceptCard    *bool
	AcceptMobile  *bool
	AcceptCredit  *bool
}

// UpdateSettings updates POS settings at the branch or organization level
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.POSSettings, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	if input.TaxRate != nil && (*input.TaxRate < 0 || *input.TaxRate > 100) {
		return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 100")
	}

	settings, err := s.settingsRepo.GetForBranch(ctx, orgID, input.BranchID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := entity.DefaultPOSSettings(orgID)
		defaults.TaxRate = s.posCfg.DefaultTaxRate
		settings = &defaults
	}

	// Writing against a branch creates a branch-level row when only the
	// organization row existed
	if input.BranchID != nil && (settings.BranchID == nil || *settings.BranchID != *input.BranchID) {
		branchSettings := *settings
		branchSettings.ID = uuid.Nil
		branchSettings.BranchID = input.BranchID
		settings = &branchSettings
	}

	if input.BusinessName != nil {
		settings.BusinessName = *input.BusinessName
	}
	if input.Address != nil {
		settings.Address = input.Address
	}
	if input.Phone != nil {
		settings.Phone = input.Phone
	}
	if input.Email != nil {
		settings.Email = input.Email
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = *input.ReceiptFooter
	}
	if input.TaxRate != nil {
		settings.TaxRate = *input.TaxRate
	}
	if input.TaxType != nil {
		settings.TaxType = enum.TaxType(*input.TaxType)
	}
	if input.AcceptCash != nil {
		settings.AcceptCash = *input.AcceptCash
	}
	if input.AcceptCard != nil {
		settings.AcceptCard = *input.AcceptCard
	}
	if input.AcceptMobile != nil {
		settings.AcceptMobile = *input.AcceptMobile
	}
	if input.AcceptCredit != nil {
		settings.AcceptCredit = *input.AcceptCredit
	}

	if settings.ID == uuid.Nil {
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	} else {
		if err := s.settingsRepo.Update(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}
