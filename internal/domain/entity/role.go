package entity

import "github.com/google/uuid"

// Role names carried in access tokens
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Actor identifies who performs an action. Admins have no database row, so
// their ID is derived from the configured admin email.
type Actor struct {
	ID   uuid.UUID
	Role string
}
