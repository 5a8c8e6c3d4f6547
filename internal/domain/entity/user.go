package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents an account in the system. Authentication happens
// upstream; this service only reads users for identity, supplier lookups
// and audit attribution.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	BranchID       *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	FirstName      string         `gorm:"size:255;not null" json:"first_name"`
	LastName       string         `gorm:"size:255;not null" json:"last_name"`
	Email          string         `gorm:"size:255;unique;not null" json:"email"`
	Password       string         `gorm:"size:255" json:"-"`
	Phone          *string        `gorm:"size:50" json:"phone,omitempty"`
	Role           enum.UserRole  `gorm:"size:50;default:'pharmacist'" json:"role"`
	CompanyName    *string        `gorm:"size:255" json:"company_name,omitempty"`
	Active         bool           `gorm:"default:true" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Branch       *Branch      `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsSupplier reports whether the user belongs to the supplier side
func (u *User) IsSupplier() bool {
	return u.Role.IsSupplier()
}
