package repository

import (
	"context"
	"errors"

	"ketpa-backend/internal/domain/entity"
	domainRepo "ketpa-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return conn(ctx, r.db).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := conn(ctx, r.db)

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountActiveByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("patient_id = ? AND cancelled = ? AND completed = ?", patientID, false, false).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Appointment{}).Count(&count).Error
	return count, err
}

// Cancel atomically cancels an appointment ONLY if it is still pending.
// Returns affected rows: 1 = success, 0 = already cancelled or completed.
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND cancelled = ? AND completed = ?", id, false, false).
		Update("cancelled", true)
	return result.RowsAffected, result.Error
}

// Complete atomically completes an appointment ONLY if it is still pending.
func (r *appointmentRepository) Complete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND cancelled = ? AND completed = ?", id, false, false).
		Update("completed", true)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) SumCompletedAmountByDoctor(ctx context.Context, doctorID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("doctor_id = ? AND completed = ?", doctorID, true).
		Row().Scan(&total)
	return total, err
}

func (r *appointmentRepository) CountPatientsByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Distinct("patient_id").
		Count(&count).Error
	return count, err
}
