package repository

import (
	"context"

	"ketpa-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	CountActiveByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)

	// Cancel marks a pending appointment cancelled.
	// Returns affected rows: 1 = cancelled now, 0 = already cancelled or completed.
	Cancel(ctx context.Context, id uuid.UUID) (int64, error)
	// Complete marks a pending appointment completed.
	// Returns affected rows: 1 = completed now, 0 = already cancelled or completed.
	Complete(ctx context.Context, id uuid.UUID) (int64, error)

	SumCompletedAmountByDoctor(ctx context.Context, doctorID uuid.UUID) (decimal.Decimal, error)
	CountPatientsByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
}
