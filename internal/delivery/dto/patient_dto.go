package dto

import (
	"time"

	"ketpa-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type UpdatePatientProfileRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Phone       string          `json:"phone" validate:"required,phone"`
	Address     *AddressRequest `json:"address" validate:"omitempty"`
	Gender      string          `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	DateOfBirth string          `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Pet         string          `json:"pet" validate:"omitempty,max=100"`
	AboutPet    string          `json:"about_pet" validate:"omitempty"`
	Image       string          `json:"image" validate:"omitempty,url"`
}

// Response DTOs

type PatientProfileResponse struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Pet           string         `json:"pet"`
	AboutPet      string         `json:"about_pet,omitempty"`
	Image         string         `json:"image,omitempty"`
	Gender        string         `json:"gender,omitempty"`
	DateOfBirth   string         `json:"dob,omitempty"`
	Address       entity.Address `json:"address"`
	EmailVerified bool           `json:"email_verified"`
	CreatedAt     time.Time      `json:"created_at"`
}
