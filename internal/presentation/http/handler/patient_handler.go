package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pharmacare-api/internal/application/service"
	"github.com/sangkips/pharmacare-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacare-api/pkg/pagination"
)

// PatientHandler handles patient-related HTTP requests
type PatientHandler struct {
	patientService *service.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Create handles creating a patient
func (h *PatientHandler) Create(c *gin.Context) {
	var req struct {
		FirstName   string     `json:"first_name" binding:"required,min=1,max=100"`
		LastName    string     `json:"last_name" binding:"required,min=1,max=100"`
		Phone       *string    `json:"phone"`
		Email       *string    `json:"email" binding:"omitempty,email"`
		Gender      *string    `json:"gender"`
		DateOfBirth *time.Time `json:"date_of_birth"`
		Address     *string    `json:"address"`
		PatientType string     `json:"patient_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	patient, err := h.patientService.CreatePatient(c.Request.Context(), &service.CreatePatientInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Email:       req.Email,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		PatientType: req.PatientType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Patient created successfully", patient)
}

// List handles listing patients
func (h *PatientHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.patientService.ListPatients(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Patients retrieved successfully", result)
}

// Get handles getting a single patient
func (h *PatientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	patient, err := h.patientService.GetPatient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient retrieved successfully", patient)
}

// Update handles updating a patient
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	var req struct {
		FirstName   *string    `json:"first_name" binding:"omitempty,min=1,max=100"`
		LastName    *string    `json:"last_name" binding:"omitempty,min=1,max=100"`
		Phone       *string    `json:"phone"`
		Email       *string    `json:"email" binding:"omitempty,email"`
		Gender      *string    `json:"gender"`
		DateOfBirth *time.Time `json:"date_of_birth"`
		Address     *string    `json:"address"`
		PatientType *string    `json:"patient_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), id, &service.UpdatePatientInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Email:       req.Email,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		PatientType: req.PatientType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient updated successfully", patient)
}

// Delete handles deleting a patient without outstanding credit
func (h *PatientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	if err := h.patientService.DeletePatient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient deleted successfully", nil)
}

// GetCredit handles listing a patient's outstanding credit sales
func (h *PatientHandler) GetCredit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	sales, total, err := h.patientService.GetPatientCredit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient credit retrieved successfully", gin.H{
		"sales":        sales,
		"total_credit": total,
	})
}
