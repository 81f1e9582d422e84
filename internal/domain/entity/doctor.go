package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Specialty is one of the fixed doctor specialties
type Specialty string

const (
	SpecialtyGeneralPhysician Specialty = "General Physician"
	SpecialtyEmergency        Specialty = "Emergency"
	SpecialtyVaccination      Specialty = "Vaccination"
)

// Specialties lists every accepted specialty
var Specialties = []Specialty{
	SpecialtyGeneralPhysician,
	SpecialtyEmergency,
	SpecialtyVaccination,
}

// IsValid reports whether s is a known specialty
func (s Specialty) IsValid() bool {
	for _, known := range Specialties {
		if s == known {
			return true
		}
	}
	return false
}

// Doctor is a vet that patients can book. BookedSlots is only mutated by
// the booking and cancellation flows.
type Doctor struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Email           string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password        string          `gorm:"type:text;not null" json:"-"`
	Image           string          `gorm:"type:text" json:"image,omitempty"`
	Specialty       Specialty       `gorm:"type:varchar(50);not null;index" json:"specialty"`
	Degree          string          `gorm:"type:varchar(255)" json:"degree,omitempty"`
	Experience      string          `gorm:"type:varchar(50)" json:"experience,omitempty"`
	About           string          `gorm:"type:text" json:"about,omitempty"`
	Rating          string          `gorm:"type:varchar(10)" json:"rating,omitempty"`
	CertificationID string          `gorm:"type:varchar(100)" json:"certification_id,omitempty"`
	ClinicName      string          `gorm:"type:varchar(255)" json:"clinic_name,omitempty"`
	Address         Address         `gorm:"type:jsonb;not null;default:'{}'" json:"address"`
	LocationURL     string          `gorm:"type:text" json:"location_url,omitempty"`
	Fee             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"fee"`
	Available       bool            `gorm:"not null;default:true;index" json:"available"`
	BookedSlots     BookedSlots     `gorm:"type:jsonb;not null;default:'{}'" json:"booked_slots"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Snapshot captures the doctor fields copied into an appointment
func (d *Doctor) Snapshot() DoctorSnapshot {
	return DoctorSnapshot{
		Name:        d.Name,
		Email:       d.Email,
		Image:       d.Image,
		Specialty:   d.Specialty,
		ClinicName:  d.ClinicName,
		Address:     d.Address,
		LocationURL: d.LocationURL,
		Fee:         d.Fee,
	}
}

// DoctorFilter narrows doctor listings
type DoctorFilter struct {
	Specialty     Specialty
	AvailableOnly bool
}
