package converter

import (
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientProfileResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientProfileResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientProfileResponse{
		ID:            patient.ID,
		Name:          patient.Name,
		Email:         patient.Email,
		Phone:         patient.Phone,
		Pet:           patient.Pet,
		AboutPet:      patient.AboutPet,
		Image:         patient.Image,
		Gender:        patient.Gender,
		DateOfBirth:   patient.DateOfBirth,
		Address:       patient.Address,
		EmailVerified: patient.EmailVerified,
		CreatedAt:     patient.CreatedAt,
	}
}
