package repository

import (
	"context"
	"errors"

	"ketpa-backend/internal/domain/entity"
	domainRepo "ketpa-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return conn(ctx, r.db).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.first(conn(ctx, r.db).Where("id = ?", id))
}

func (r *patientRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.first(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *patientRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	return r.first(conn(ctx, r.db).Where("email = ?", email))
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return conn(ctx, r.db).Save(patient).Error
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Patient{}).Count(&count).Error
	return count, err
}

func (r *patientRepository) first(query *gorm.DB) (*entity.Patient, error) {
	var patient entity.Patient
	err := query.First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
