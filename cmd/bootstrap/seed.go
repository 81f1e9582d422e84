package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "Ketpa@123"

// Seed inserts fake doctors and verified patients for local development.
func Seed(ctx context.Context, db *gorm.DB, log *logrus.Logger, doctors, patients int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	transactor := repository.NewTransactor(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)

	err = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for i := 0; i < doctors; i++ {
			doctor := &entity.Doctor{
				Name:        "Dr. " + gofakeit.Name(),
				Email:       strings.ToLower(gofakeit.Email()),
				Password:    string(hash),
				Specialty:   entity.Specialties[gofakeit.Number(0, len(entity.Specialties)-1)],
				Degree:      "BVSc & AH",
				Experience:  fmt.Sprintf("%d Years", gofakeit.Number(1, 20)),
				About:       fmt.Sprintf("Caring for %ss and their owners.", gofakeit.Animal()),
				ClinicName:  gofakeit.Company() + " Pet Clinic",
				Address:     entity.Address{Line1: gofakeit.Street(), Line2: gofakeit.City()},
				Fee:         decimal.NewFromInt(int64(gofakeit.Number(3, 15) * 100)),
				Available:   true,
				BookedSlots: entity.BookedSlots{},
			}
			if err := doctorRepo.Create(ctx, doctor); err != nil {
				return fmt.Errorf("seed doctor %s: %w", doctor.Email, err)
			}
		}

		for i := 0; i < patients; i++ {
			patient := &entity.Patient{
				Name:          gofakeit.Name(),
				Email:         strings.ToLower(gofakeit.Email()),
				Password:      string(hash),
				Phone:         fmt.Sprintf("+91 %d %05d", gofakeit.Number(60000, 99999), gofakeit.Number(0, 99999)),
				Pet:           gofakeit.PetName(),
				Address:       entity.Address{Line1: gofakeit.Street(), Line2: gofakeit.City()},
				Gender:        "Not Selected",
				DateOfBirth:   "Not Selected",
				EmailVerified: true,
			}
			if err := patientRepo.Create(ctx, patient); err != nil {
				return fmt.Errorf("seed patient %s: %w", patient.Email, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"doctors": doctors, "patients": patients}).Info("Database seeded")
	return nil
}
