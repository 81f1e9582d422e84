package dto

import (
	"time"

	"ketpa-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	ActorID   *uuid.UUID  `json:"actor_id,omitempty"`
	ActorRole string      `json:"actor_role"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
