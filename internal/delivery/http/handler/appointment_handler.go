package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/delivery/http/middleware"
	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/response"
	"ketpa-backend/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// BookAppointment reserves a slot for the authenticated patient.
// @Router /user/book-appointment [post]
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), patientID, &req)
	if err != nil {
		writeAppointmentError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment Booked. A confirmation email will be sent to your registered email.", appointment)
}

// @Router /user/appointments [get]
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.appointmentUsecase.ListForPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// @Router /doctor/appointments [get]
func (h *AppointmentHandler) GetDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.appointmentUsecase.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// @Router /admin/appointments [get]
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// CancelAppointment serves the patient, doctor and admin cancel routes. The
// usecase decides ownership from the caller's role.
// @Router /user/cancel-appointment [post]
// @Router /doctor/cancel-appointment [post]
// @Router /admin/cancel-appointment [post]
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.AppointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.appointmentUsecase.Cancel(r.Context(), actor, req.AppointmentID); err != nil {
		writeAppointmentError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment Cancelled", nil)
}

// @Router /doctor/complete-appointment [post]
func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.AppointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.appointmentUsecase.Complete(r.Context(), doctorID, req.AppointmentID); err != nil {
		writeAppointmentError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment Completed", nil)
}

func writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSlot):
		response.BadRequest(w, "Invalid slot")
	case errors.Is(err, usecase.ErrSlotInPast):
		response.BadRequest(w, "Slot is in the past")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrEmailNotVerified):
		response.Forbidden(w, "Verify your email to book appointments.")
	case errors.Is(err, usecase.ErrDoctorNotAvailable):
		response.Conflict(w, "Doctor not available")
	case errors.Is(err, usecase.ErrAppointmentLimit):
		response.Conflict(w, "You already have 2 appointments pending")
	case errors.Is(err, usecase.ErrInvalidPhone):
		response.BadRequest(w, "Please add a valid phone number to profile")
	case errors.Is(err, usecase.ErrSlotNotAvailable):
		response.Conflict(w, "Slot not available")
	case errors.Is(err, usecase.ErrUnauthorizedAction):
		response.Forbidden(w, "Unauthorized action")
	case errors.Is(err, usecase.ErrAppointmentCompleted):
		response.Conflict(w, "Appointment already completed")
	case errors.Is(err, usecase.ErrAppointmentCancelled):
		response.Conflict(w, "Appointment already cancelled")
	default:
		response.InternalServerError(w, fallback)
	}
}
