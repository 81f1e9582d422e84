package validator

import (
	"unicode"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/slot"
	"ketpa-backend/pkg/phone"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("datekey", validateDateKey)
	_ = v.RegisterValidation("timelabel", validateTimeLabel)
	_ = v.RegisterValidation("specialty", validateSpecialty)
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)
	_ = v.RegisterValidation("phone", validatePhone)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "len":
				errors[field] = field + " must be exactly " + e.Param() + " characters"
			case "numeric":
				errors[field] = field + " must contain digits only"
			case "eqfield":
				errors[field] = field + " must match " + e.Param()
			case "datekey":
				errors[field] = field + " must be a date formatted D_M_YYYY"
			case "timelabel":
				errors[field] = field + " must be a 30 minute slot between 10:00 AM and 08:30 PM, formatted hh:mm AM/PM"
			case "specialty":
				errors[field] = field + " must be one of General Physician, Emergency, Vaccination"
			case "strongpassword":
				errors[field] = "Password must be at least 8 characters long, include uppercase, lowercase, and a number."
			case "phone":
				errors[field] = "Enter valid phone number."
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateDateKey(fl validator.FieldLevel) bool {
	_, err := slot.ParseDateKey(fl.Field().String())
	return err == nil
}

func validateTimeLabel(fl validator.FieldLevel) bool {
	label, err := slot.ParseTimeLabel(fl.Field().String())
	return err == nil && slot.OnGrid(label)
}

func validateSpecialty(fl validator.FieldLevel) bool {
	return entity.Specialty(fl.Field().String()).IsValid()
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func validatePhone(fl validator.FieldLevel) bool {
	return phone.Valid(phone.Normalize(fl.Field().String()))
}
