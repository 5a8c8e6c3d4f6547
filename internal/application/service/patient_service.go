package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/domain/entity"
	"github.com/sangkips/pharmacare-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pharmacare-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacare-api/pkg/apperror"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
	"github.com/sangkips/pharmacare-api/pkg/utils"
)

// PatientService handles the patient registry
type PatientService struct {
	patientRepo repository.PatientRepository
	saleRepo    repository.SaleRepository
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repository.PatientRepository, saleRepo repository.SaleRepository) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		saleRepo:    saleRepo,
	}
}

// CreatePatientInput represents the create patient input
type CreatePatientInput struct {
	FirstName   string
	LastName    string
	Phone       *string
	Email       *string
	Gender      *string
	DateOfBirth *time.Time
	Address     *string
	PatientType string
}

// CreatePatient registers a new patient
func (s *PatientService) CreatePatient(ctx context.Context, input *CreatePatientInput) (*entity.Patient, error) {
	orgID, err := infraRepo.RequireOrganizationID(ctx)
	if err != nil {
		return nil, err
	}
	if input.FirstName == "" {
		return nil, apperror.NewBadRequestError("First name is required")
	}

	if input.Phone != nil && *input.Phone != "" {
		existing, err := s.patientRepo.GetByPhone(ctx, *input.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A patient with this phone number already exists")
		}
	}

	patientType := input.PatientType
	if patientType == "" {
		patientType = "walk_in"
	}

	patient := &entity.Patient{
		OrganizationID: orgID,
		PatientNumber:  utils.GeneratePatientNumber(orgID.String()[:8]),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Email:          input.Email,
		Gender:         input.Gender,
		DateOfBirth:    input.DateOfBirth,
		Address:        input.Address,
		PatientType:    patientType,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetPatient retrieves a patient by ID
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	return patient, nil
}

// ListPatients lists patients with optional search
func (s *PatientService) ListPatients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Patient], error) {
	patients, total, err := s.patientRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(patients, pag), nil
}

// UpdatePatientInput represents the update patient input
type UpdatePatientInput struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	Email       *string
	Gender      *string
	DateOfBirth *time.Time
	Address     *string
	PatientType *string
}

// UpdatePatient updates a patient's details
func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, input *UpdatePatientInput) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	if input.Phone != nil && *input.Phone != "" {
		existing, err := s.patientRepo.GetByPhone(ctx, *input.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != patient.ID {
			return nil, apperror.NewConflictError("A patient with this phone number already exists")
		}
		patient.Phone = input.Phone
	}

	if input.FirstName != nil {
		patient.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		patient.LastName = *input.LastName
	}
	if input.Email != nil {
		patient.Email = input.Email
	}
	if input.Gender != nil {
		patient.Gender = input.Gender
	}
	if input.DateOfBirth != nil {
		patient.DateOfBirth = input.DateOfBirth
	}
	if input.Address != nil {
		patient.Address = input.Address
	}
	if input.PatientType != nil {
		patient.PatientType = *input.PatientType
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// DeletePatient removes a patient from the registry. Patients with
// outstanding credit cannot be removed.
func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if patient == nil {
		return apperror.NewNotFoundError("Patient")
	}

	sales, _, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
		PatientID:  &id,
		OnlyCredit: true,
	})
	if err != nil {
		return err
	}
	if len(sales) > 0 {
		return apperror.NewBadRequestError("Patient has outstanding credit")
	}

	return s.patientRepo.Delete(ctx, id)
}

// GetPatientCredit returns a patient's open credit sales and their total
func (s *PatientService) GetPatientCredit(ctx context.Context, id uuid.UUID) ([]entity.Sale, float64, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if patient == nil {
		return nil, 0, apperror.NewNotFoundError("Patient")
	}

	sales, _, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
		PatientID:  &id,
		OnlyCredit: true,
	})
	if err != nil {
		return nil, 0, err
	}

	var totalCents int64
	for i := range sales {
		totalCents += sales[i].Credit
	}
	return sales, float64(totalCents) / 100, nil
}
