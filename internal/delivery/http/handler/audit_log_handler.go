package handler

import (
	"net/http"
	"strconv"

	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetAuditLogs returns the newest entries first. ?limit= is optional.
// @Router /admin/audit-logs [get]
func (h *AuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid limit")
			return
		}
		limit = n
	}

	auditLogs, err := h.auditLogUsecase.GetLatest(r.Context(), limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}
