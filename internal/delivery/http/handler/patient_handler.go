package handler

import (
	"encoding/json"
	"net/http"

	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/delivery/http/middleware"
	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/response"
	"ketpa-backend/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// @Router /user/get-profile [get]
func (h *PatientHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	profile, err := h.patientUsecase.GetProfile(r.Context(), patientID)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

// @Router /user/update-profile [post]
func (h *PatientHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdatePatientProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.patientUsecase.UpdateProfile(r.Context(), patientID, &req)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile Updated", profile)
}
