package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"ketpa-backend/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus is derived from the cancelled/completed flags
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// MaxActiveAppointments is how many pending appointments a patient may hold
const MaxActiveAppointments = 2

// Appointment is the source of truth for which slot is consumed.
// Cancelled and Completed are terminal and never both true.
type Appointment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Patient   PatientSnapshot `gorm:"column:patient_snapshot;type:jsonb;not null" json:"patient"`
	Doctor    DoctorSnapshot  `gorm:"column:doctor_snapshot;type:jsonb;not null" json:"doctor"`
	SlotDate  slot.DateKey    `gorm:"type:varchar(10);not null" json:"slot_date"`
	SlotTime  slot.TimeLabel  `gorm:"type:varchar(8);not null" json:"slot_time"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Cancelled bool            `gorm:"not null;default:false;index" json:"cancelled"`
	Completed bool            `gorm:"not null;default:false;index" json:"completed"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive reports whether the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	return !a.Cancelled && !a.Completed
}

// Status returns the state machine position
func (a *Appointment) Status() AppointmentStatus {
	switch {
	case a.Cancelled:
		return AppointmentStatusCancelled
	case a.Completed:
		return AppointmentStatusCompleted
	default:
		return AppointmentStatusPending
	}
}

// PatientSnapshot is a copy of patient fields taken at booking time.
// It is not kept in sync with later profile edits.
type PatientSnapshot struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Image   string  `json:"image,omitempty"`
	Pet     string  `json:"pet,omitempty"`
	Address Address `json:"address"`
}

func (s PatientSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *PatientSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = PatientSnapshot{}
		return nil
	}
	return scanJSONB(value, s)
}

// DoctorSnapshot is a copy of doctor fields taken at booking time
type DoctorSnapshot struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Image       string          `json:"image,omitempty"`
	Specialty   Specialty       `json:"specialty"`
	ClinicName  string          `json:"clinic_name,omitempty"`
	Address     Address         `json:"address"`
	LocationURL string          `json:"location_url,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
}

func (s DoctorSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *DoctorSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = DoctorSnapshot{}
		return nil
	}
	return scanJSONB(value, s)
}

// AppointmentFilter narrows appointment listings
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Limit     int
}
