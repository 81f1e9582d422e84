package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/delivery/http/middleware"
	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/response"
	"ketpa-backend/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// RegisterPatient creates an unverified patient account and emails an OTP.
// @Router /user/register [post]
func (h *AuthHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.authUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "Email already exists")
		default:
			response.InternalServerError(w, "Failed to register user")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Account created. Please verify your email using the OTP sent.", result)
}

// @Router /user/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.VerifyOTP(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrEmailAlreadyVerified:
			response.Conflict(w, "Email already verified")
		case usecase.ErrInvalidOTP:
			response.BadRequest(w, "Invalid or expired OTP")
		default:
			response.InternalServerError(w, "Failed to verify email")
		}
		return
	}

	response.Success(w, http.StatusOK, "Email verified successfully", tokens)
}

// @Router /user/resend-otp [post]
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.ResendOTP(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrEmailAlreadyVerified:
			response.Conflict(w, "Email already verified")
		case usecase.ErrTooManyOTPRequests:
			response.Error(w, http.StatusTooManyRequests, "Too many OTP requests. Please try again later.", nil)
		default:
			response.InternalServerError(w, "Failed to resend OTP")
		}
		return
	}

	response.Success(w, http.StatusOK, "OTP resent successfully", nil)
}

// @Router /user/login [post]
func (h *AuthHandler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authUsecase.LoginPatient)
}

// @Router /doctor/login [post]
func (h *AuthHandler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authUsecase.LoginDoctor)
}

// @Router /admin/login [post]
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authUsecase.LoginAdmin)
}

type loginFunc func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, login loginFunc) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidToken, usecase.ErrTokenRevoked:
			response.Unauthorized(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to refresh token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Logout revokes the current access token and, when the body carries one,
// the refresh token.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// Body is optional
	var req dto.LogoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID, &req); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}
