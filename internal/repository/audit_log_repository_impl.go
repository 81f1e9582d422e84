package repository

import (
	"context"

	"ketpa-backend/internal/domain/entity"
	domainRepo "ketpa-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return conn(ctx, r.db).Create(log).Error
}

func (r *auditLogRepository) FindLatest(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := conn(ctx, r.db).Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
