package repository

import (
	"context"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error)
	UpdateProfile(ctx context.Context, doctor *entity.Doctor) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (int64, error)
	// ToggleAvailability flips the doctor's availability in a single statement
	// and returns the updated row, or nil when the doctor does not exist.
	ToggleAvailability(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	Count(ctx context.Context) (int64, error)

	// ReserveSlot adds label to the doctor's booked slots for date only if it
	// is not already there. It returns false when the slot was taken.
	ReserveSlot(ctx context.Context, id uuid.UUID, date slot.DateKey, label slot.TimeLabel) (bool, error)
	// ReleaseSlot removes label from the doctor's booked slots for date.
	// Releasing a slot that is not booked is a no-op.
	ReleaseSlot(ctx context.Context, id uuid.UUID, date slot.DateKey, label slot.TimeLabel) error
}
