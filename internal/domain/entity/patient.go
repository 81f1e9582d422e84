package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a pet owner who books appointments
type Patient struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"type:text;not null" json:"-"`
	Phone         string     `gorm:"type:varchar(20)" json:"phone"`
	Pet           string     `gorm:"type:varchar(100)" json:"pet,omitempty"`
	AboutPet      string     `gorm:"type:text" json:"about_pet,omitempty"`
	Image         string     `gorm:"type:text" json:"image,omitempty"`
	Gender        string     `gorm:"type:varchar(20)" json:"gender,omitempty"`
	DateOfBirth   string     `gorm:"type:varchar(20)" json:"dob,omitempty"`
	Address       Address    `gorm:"type:jsonb;not null;default:'{}'" json:"address"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	OTPHash       string     `gorm:"column:otp_hash;type:text" json:"-"`
	OTPExpiresAt  *time.Time `gorm:"column:otp_expires_at" json:"-"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Snapshot captures the patient fields copied into an appointment
func (p *Patient) Snapshot() PatientSnapshot {
	return PatientSnapshot{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Image:   p.Image,
		Pet:     p.Pet,
		Address: p.Address,
	}
}
