package http

import (
	"net/http"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Employee(w http.ResponseWriter, r *http.Request)
	Manager(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	data, err := h.dashboardService.GetEmployeeDashboard(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, data)
}

func (h *dashboardHandlerImpl) Manager(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	data, err := h.dashboardService.GetManagerDashboard(r.Context(), id.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, data)
}
