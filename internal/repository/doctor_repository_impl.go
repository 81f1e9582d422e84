package repository

import (
	"context"
	"errors"

	"ketpa-backend/internal/domain/entity"
	domainRepo "ketpa-backend/internal/domain/repository"
	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reserveSlotSQL appends the label to booked_slots[date] only when it is not
// already present, so two concurrent reservations cannot both succeed.
const reserveSlotSQL = `
UPDATE doctors
SET booked_slots = jsonb_set(
        booked_slots,
        ARRAY[?::text],
        COALESCE(booked_slots -> ?::text, '[]'::jsonb) || jsonb_build_array(?::text),
        true),
    updated_at = NOW()
WHERE id = ?
  AND NOT (COALESCE(booked_slots -> ?::text, '[]'::jsonb) @> jsonb_build_array(?::text))`

// releaseSlotSQL removes the label from booked_slots[date], keeping the order
// of the remaining labels. Rows without the date entry are left untouched.
const releaseSlotSQL = `
UPDATE doctors
SET booked_slots = jsonb_set(
        booked_slots,
        ARRAY[?::text],
        COALESCE(
            (SELECT jsonb_agg(e.value ORDER BY e.ord)
             FROM jsonb_array_elements(booked_slots -> ?::text) WITH ORDINALITY AS e(value, ord)
             WHERE e.value <> to_jsonb(?::text)),
            '[]'::jsonb)),
    updated_at = NOW()
WHERE id = ?
  AND (booked_slots -> ?::text) IS NOT NULL`

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if doctor.BookedSlots == nil {
		doctor.BookedSlots = entity.BookedSlots{}
	}
	return conn(ctx, r.db).Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := conn(ctx, r.db).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := conn(ctx, r.db).Where("email = ?", email).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := conn(ctx, r.db)

	if filter.Specialty != "" {
		query = query.Where("specialty = ?", filter.Specialty)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}

	err := query.Order("created_at ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

// UpdateProfile saves editable fields only. BookedSlots and Available have
// their own update paths.
func (r *doctorRepository) UpdateProfile(ctx context.Context, doctor *entity.Doctor) error {
	return conn(ctx, r.db).Model(doctor).
		Select("name", "image", "degree", "experience", "about", "clinic_name", "address", "location_url", "fee", "password").
		Updates(doctor).Error
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Doctor{}).
		Where("id = ?", id).
		Update("available", available)
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) ToggleAvailability(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	result := conn(ctx, r.db).Model(&doctor).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("NOT available"),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &doctor, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Doctor{}).Count(&count).Error
	return count, err
}

func (r *doctorRepository) ReserveSlot(ctx context.Context, id uuid.UUID, date slot.DateKey, label slot.TimeLabel) (bool, error) {
	d, l := string(date), string(label)
	result := conn(ctx, r.db).Exec(reserveSlotSQL, d, d, l, id, d, l)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *doctorRepository) ReleaseSlot(ctx context.Context, id uuid.UUID, date slot.DateKey, label slot.TimeLabel) error {
	d, l := string(date), string(label)
	return conn(ctx, r.db).Exec(releaseSlotSQL, d, d, l, id, d).Error
}
