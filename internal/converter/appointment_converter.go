package converter

import (
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:        appointment.ID,
		PatientID: appointment.PatientID,
		DoctorID:  appointment.DoctorID,
		Patient:   appointment.Patient,
		Doctor:    appointment.Doctor,
		SlotDate:  appointment.SlotDate,
		SlotTime:  appointment.SlotTime,
		Amount:    appointment.Amount,
		Cancelled: appointment.Cancelled,
		Completed: appointment.Completed,
		Status:    string(appointment.Status()),
		CreatedAt: appointment.CreatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
