package http

import (
	"net/http"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/dashboard"
	"github.com/ethos-hrms/hrms-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	GetPendingCounts(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetPendingCounts handles GET /api/v1/dashboard/pending
func (h *dashboardHandlerImpl) GetPendingCounts(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	counts, err := h.dashboardService.GetPendingCounts(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, counts)
}
