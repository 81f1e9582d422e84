package converter

import (
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO.
// Password and booked slots are never exposed.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		Name:            doctor.Name,
		Email:           doctor.Email,
		Image:           doctor.Image,
		Specialty:       doctor.Specialty,
		Degree:          doctor.Degree,
		Experience:      doctor.Experience,
		About:           doctor.About,
		Rating:          doctor.Rating,
		CertificationID: doctor.CertificationID,
		ClinicName:      doctor.ClinicName,
		Address:         doctor.Address,
		LocationURL:     doctor.LocationURL,
		Fee:             doctor.Fee,
		Available:       doctor.Available,
		CreatedAt:       doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// AddressFromRequest converts an AddressRequest DTO to an Address value
func AddressFromRequest(req *dto.AddressRequest) entity.Address {
	if req == nil {
		return entity.Address{}
	}
	return entity.Address{Line1: req.Line1, Line2: req.Line2}
}
