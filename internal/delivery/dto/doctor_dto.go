package dto

import (
	"time"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type AddressRequest struct {
	Line1 string `json:"line1" validate:"required,max=255"`
	Line2 string `json:"line2" validate:"omitempty,max=255"`
}

type CreateDoctorRequest struct {
	Name            string          `json:"name" validate:"required,min=2,max=255"`
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required,strongpassword"`
	Image           string          `json:"image" validate:"omitempty,url"`
	Specialty       string          `json:"specialty" validate:"required,specialty"`
	Degree          string          `json:"degree" validate:"required,max=255"`
	Experience      string          `json:"experience" validate:"required,max=50"`
	About           string          `json:"about" validate:"required"`
	Rating          string          `json:"rating" validate:"omitempty,max=10"`
	CertificationID string          `json:"certification_id" validate:"omitempty,max=100"`
	ClinicName      string          `json:"clinic_name" validate:"required,max=255"`
	Address         AddressRequest  `json:"address" validate:"required"`
	LocationURL     string          `json:"location_url" validate:"omitempty"`
	Fee             decimal.Decimal `json:"fee"`
}

type ChangeAvailabilityRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
}

type UpdateDoctorProfileRequest struct {
	Fee         *decimal.Decimal `json:"fee"`
	Address     *AddressRequest  `json:"address" validate:"omitempty"`
	Available   *bool            `json:"available"`
	About       *string          `json:"about" validate:"omitempty"`
	ClinicName  *string          `json:"clinic_name" validate:"omitempty,max=255"`
	LocationURL *string          `json:"location_url" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Image           string           `json:"image,omitempty"`
	Specialty       entity.Specialty `json:"specialty"`
	Degree          string           `json:"degree"`
	Experience      string           `json:"experience"`
	About           string           `json:"about"`
	Rating          string           `json:"rating,omitempty"`
	CertificationID string           `json:"certification_id,omitempty"`
	ClinicName      string           `json:"clinic_name"`
	Address         entity.Address   `json:"address"`
	LocationURL     string           `json:"location_url,omitempty"`
	Fee             decimal.Decimal  `json:"fee"`
	Available       bool             `json:"available"`
	CreatedAt       time.Time        `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type DoctorSlotsResponse struct {
	DoctorID  uuid.UUID  `json:"doctor_id"`
	Available bool       `json:"available"`
	Days      []slot.Day `json:"days"`
}
