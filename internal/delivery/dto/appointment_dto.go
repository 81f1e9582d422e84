package dto

import (
	"time"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	SlotDate string    `json:"slot_date" validate:"required,datekey"`
	SlotTime string    `json:"slot_time" validate:"required,timelabel"`
}

type AppointmentActionRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID              `json:"id"`
	PatientID uuid.UUID              `json:"patient_id"`
	DoctorID  uuid.UUID              `json:"doctor_id"`
	Patient   entity.PatientSnapshot `json:"patient"`
	Doctor    entity.DoctorSnapshot  `json:"doctor"`
	SlotDate  slot.DateKey           `json:"slot_date"`
	SlotTime  slot.TimeLabel         `json:"slot_time"`
	Amount    decimal.Decimal        `json:"amount"`
	Cancelled bool                   `json:"cancelled"`
	Completed bool                   `json:"completed"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AdminDashboardResponse struct {
	Doctors            int64                 `json:"doctors"`
	Appointments       int64                 `json:"appointments"`
	Patients           int64                 `json:"patients"`
	LatestAppointments []AppointmentResponse `json:"latest_appointments"`
}

type DoctorDashboardResponse struct {
	Earnings           decimal.Decimal       `json:"earnings"`
	Appointments       int                   `json:"appointments"`
	Patients           int64                 `json:"patients"`
	LatestAppointments []AppointmentResponse `json:"latest_appointments"`
}
