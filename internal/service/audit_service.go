package service

import (
	"context"

	"ketpa-backend/internal/domain/entity"
	"ketpa-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuditService interface {
	// Record writes an audit entry. Inside a transaction it commits or rolls
	// back together with the audited change.
	Record(ctx context.Context, actor entity.Actor, action string, metadata entity.JSON) error
	Latest(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, actor entity.Actor, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		ActorRole: actor.Role,
		Action:    action,
		Metadata:  metadata,
	}
	if actor.ID != uuid.Nil {
		id := actor.ID
		auditLog.ActorID = &id
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

func (s *auditService) Latest(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	logs, err := s.auditRepo.FindLatest(ctx, limit)
	if err != nil {
		s.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}
	return logs, nil
}
