package repository

import (
	"context"

	"ketpa-backend/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindLatest(ctx context.Context, limit int) ([]entity.AuditLog, error)
}
