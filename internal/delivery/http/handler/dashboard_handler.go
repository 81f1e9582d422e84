package handler

import (
	"net/http"

	"ketpa-backend/internal/delivery/http/middleware"
	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/response"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

// @Router /admin/dashboard [get]
func (h *DashboardHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardUsecase.AdminDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// @Router /doctor/dashboard [get]
func (h *DashboardHandler) DoctorDashboard(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	dashboard, err := h.dashboardUsecase.DoctorDashboard(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
