package usecase

import (
	"context"

	"ketpa-backend/internal/converter"
	"ketpa-backend/internal/delivery/dto"
	"ketpa-backend/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 500
)

type AuditLogUsecase interface {
	GetLatest(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditService service.AuditService
}

func NewAuditLogUsecase(log *logrus.Logger, auditService service.AuditService) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditService: auditService,
	}
}

func (u *auditLogUsecase) GetLatest(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLogLimit
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	logs, err := u.auditService.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
