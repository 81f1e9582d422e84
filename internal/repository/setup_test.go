package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"ketpa-backend/internal/domain/entity"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDatabaseURLEnv names a postgres:// URL of a disposable database. The
// tests in this package truncate every table, so never point it at real data.
const testDatabaseURLEnv = "KETPA_TEST_DATABASE_URL"

// testDB is the package-level database, opened once in TestMain. It stays
// nil when no database is configured.
var testDB *gorm.DB

func TestMain(m *testing.M) {
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		os.Exit(m.Run())
	}

	db, err := setupDatabase(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db
	code := m.Run()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	os.Exit(code)
}

func setupDatabase(url string) (*gorm.DB, error) {
	m, err := migrate.New("file://"+findMigrationsDir(), migrateURL(url))
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("migrate up: %w", err)
	}
	m.Close()

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return db, nil
}

// migrateURL swaps the scheme for the pgx v5 migration driver.
func migrateURL(url string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(url, scheme) {
			return "pgx5://" + strings.TrimPrefix(url, scheme)
		}
	}
	return url
}

// findMigrationsDir locates the migrations directory relative to this file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// requireDB skips the test when no database is configured and otherwise
// hands out an empty schema.
func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}
	err := testDB.Exec("TRUNCATE appointments, audit_logs, patients, doctors RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return testDB
}

func createDoctor(t *testing.T, db *gorm.DB, email string) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{
		Name:       "Rao",
		Email:      email,
		Password:   "hash",
		Specialty:  entity.SpecialtyVaccination,
		ClinicName: "Paws Clinic",
		Address:    entity.Address{Line1: "12 MG Road", Line2: "Bangalore"},
		Fee:        decimal.NewFromInt(500),
		Available:  true,
	}
	if err := NewDoctorRepository(db).Create(context.Background(), doctor); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return doctor
}

func createPatient(t *testing.T, db *gorm.DB, email string) *entity.Patient {
	t.Helper()
	patient := &entity.Patient{
		Name:          "Asha",
		Email:         email,
		Password:      "hash",
		Phone:         "+91 98765 43210",
		EmailVerified: true,
	}
	if err := NewPatientRepository(db).Create(context.Background(), patient); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func bookedSlots(t *testing.T, db *gorm.DB, doctorID uuid.UUID) entity.BookedSlots {
	t.Helper()
	stored, err := NewDoctorRepository(db).FindByID(context.Background(), doctorID)
	if err != nil || stored == nil {
		t.Fatalf("find doctor: %v %v", stored, err)
	}
	return stored.BookedSlots
}
