package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http/response"
)

// LiveOverview exposes the most recent overview computed by the live refresher.
type LiveOverview interface {
	Latest() *dashboard.OverviewResponse
}

type DashboardHandler interface {
	GetOverview(w http.ResponseWriter, r *http.Request)
	GetLiveOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	live             LiveOverview
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, live LiveOverview) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService, live: live}
}

// GetOverview computes the staff panel on demand
func (h *dashboardHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := dashboard.OverviewRequest{
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,
		BranchID:    getOptionalQueryParam(r, "branch_id"),
		Status:      getOptionalQueryParam(r, "status"),
		WindowDays:  getIntQueryParam(r, "window_days", 0),
	}

	result, err := h.dashboardService.Overview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLiveOverview returns the last published overview, computing one if none exists yet
func (h *dashboardHandlerImpl) GetLiveOverview(w http.ResponseWriter, r *http.Request) {
	if h.live != nil {
		if latest := h.live.Latest(); latest != nil {
			response.Success(w, latest)
			return
		}
	}

	result, err := h.dashboardService.Overview(r.Context(), dashboard.OverviewRequest{})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
