package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient represents a pharmacy customer. Walk-in sales create anonymous
// patients on the fly; regular patients are registered with their details.
type Patient struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	PatientNumber  string         `gorm:"size:100;unique;not null" json:"patient_number"`
	FirstName      string         `gorm:"size:255;not null" json:"first_name"`
	LastName       string         `gorm:"size:255" json:"last_name"`
	Phone          *string        `gorm:"size:50;index" json:"phone,omitempty"`
	Email          *string        `gorm:"size:255" json:"email,omitempty"`
	Gender         *string        `gorm:"size:20" json:"gender,omitempty"`
	DateOfBirth    *time.Time     `gorm:"type:date" json:"date_of_birth,omitempty"`
	Address        *string        `gorm:"type:text" json:"address,omitempty"`
	PatientType    string         `gorm:"size:50;default:'walk_in'" json:"patient_type"` // walk_in, regular
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Sales        []Sale       `gorm:"foreignKey:PatientID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new patient
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Patient model
func (Patient) TableName() string {
	return "patients"
}

// FullName returns the patient's display name
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
