package usecase

import (
	"context"

	"ketpa-backend/internal/converter"
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/domain/repository"
	"ketpa-backend/pkg/phone"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PatientUsecase interface {
	GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientProfileResponse, error)
	UpdateProfile(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error)
}

type patientUsecase struct {
	log         *logrus.Logger
	patientRepo repository.PatientRepository
}

func NewPatientUsecase(log *logrus.Logger, patientRepo repository.PatientRepository) PatientUsecase {
	return &patientUsecase{
		log:         log,
		patientRepo: patientRepo,
	}
}

func (u *patientUsecase) GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientProfileResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

// UpdateProfile replaces the editable profile fields. Existing appointments
// keep the snapshot taken at booking time.
func (u *patientUsecase) UpdateProfile(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	patient.Name = req.Name
	patient.Phone = phone.Normalize(req.Phone)
	if req.Address != nil {
		patient.Address = converter.AddressFromRequest(req.Address)
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.DateOfBirth != "" {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Pet != "" {
		patient.Pet = req.Pet
	}
	if req.AboutPet != "" {
		patient.AboutPet = req.AboutPet
	}
	if req.Image != "" {
		patient.Image = req.Image
	}

	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", patientID, err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}
