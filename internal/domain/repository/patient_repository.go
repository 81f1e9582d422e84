package repository

import (
	"context"

	"ketpa-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	// FindByIDForUpdate locks the patient row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	FindByEmail(ctx context.Context, email string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	Count(ctx context.Context) (int64, error)
}
