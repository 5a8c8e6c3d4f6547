package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"gorm.io/gorm"
)

// POSSettings holds point-of-sale configuration per organization, with an
// optional branch-level override. The tax rate recorded here drives sale
// total calculations.
type POSSettings struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	BranchID       *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	BusinessName   string         `gorm:"size:255" json:"business_name"`
	Address        *string        `gorm:"type:text" json:"address,omitempty"`
	Phone          *string        `gorm:"size:50" json:"phone,omitempty"`
	Email          *string        `gorm:"size:255" json:"email,omitempty"`
	ReceiptFooter  string         `gorm:"type:text" json:"receipt_footer"`
	TaxRate        float64        `gorm:"default:13" json:"tax_rate"` // percent
	TaxType        enum.TaxType   `gorm:"default:0" json:"tax_type"`
	AcceptCash     bool           `gorm:"default:true" json:"accept_cash"`
	AcceptCard     bool           `gorm:"default:true" json:"accept_card"`
	AcceptMobile   bool           `gorm:"default:true" json:"accept_mobile"`
	AcceptCredit   bool           `gorm:"default:true" json:"accept_credit"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Branch       *Branch      `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *POSSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSSettings model
func (POSSettings) TableName() string {
	return "pos_settings"
}

// DefaultPOSSettings returns the settings a new organization starts with
func DefaultPOSSettings(organizationID uuid.UUID) POSSettings {
	return POSSettings{
		OrganizationID: organizationID,
		ReceiptFooter:  "Thank you for your purchase",
		TaxRate:        13,
		TaxType:        enum.TaxTypeExclusive,
		AcceptCash:     true,
		AcceptCard:     true,
		AcceptMobile:   true,
		AcceptCredit:   true,
	}
}
