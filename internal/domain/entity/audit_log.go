package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	ActorRole string     `gorm:"type:varchar(20);not null" json:"actor_role"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionPatientRegister     = "patient.register"
	AuditActionPatientVerify       = "patient.verify"
	AuditActionAppointmentBook     = "appointment.book"
	AuditActionAppointmentCancel   = "appointment.cancel"
	AuditActionAppointmentComplete = "appointment.complete"
	AuditActionDoctorCreate        = "doctor.create"
	AuditActionDoctorAvailability  = "doctor.availability"
	AuditActionDoctorUpdate        = "doctor.update"
)
