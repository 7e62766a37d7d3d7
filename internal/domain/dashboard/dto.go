package dashboard

import (
	"github.com/shopspring/decimal"
)

type OverviewRequest struct {
	PeriodMonth int     `json:"period_month"`
	PeriodYear  int     `json:"period_year"`
	BranchID    *string `json:"branch_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	WindowDays  int     `json:"window_days"`
}

// EmployeeOverview is one row of the staff panel.
type EmployeeOverview struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Role              string          `json:"role"`
	BranchID          string          `json:"branch_id,omitempty"`
	Status            string          `json:"status"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	AttendanceRate    int             `json:"attendance_rate"`
	PresentDays       int             `json:"present_days"`
	LateDays          int             `json:"late_days"`
	OvertimeHours     float64         `json:"overtime_hours"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	Bonus             decimal.Decimal `json:"bonus"`
	Penalty           decimal.Decimal `json:"penalty"`
	NetSalary         decimal.Decimal `json:"net_salary"`
	AbsenceStatus     string          `json:"absence_status"`
	MaxAbsentDays     int             `json:"max_absent_days"`
	CurrentAbsentDays int             `json:"current_absent_days"`
	RemainingDays     int             `json:"remaining_days"`
	ExcessDays        int             `json:"excess_days"`
}

type Totals struct {
	EmployeeCount   int             `json:"employee_count"`
	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalNetPayroll decimal.Decimal `json:"total_net_payroll"`
	OverQuotaCount  int             `json:"over_quota_count"`
}

type OverviewResponse struct {
	Sequence    uint64             `json:"sequence"`
	Period      string             `json:"period"`
	GeneratedAt string             `json:"generated_at"`
	Employees   []EmployeeOverview `json:"employees"`
	Totals      Totals             `json:"totals"`
}

// LiveTopic is the event stream topic that carries refreshed overviews.
const LiveTopic = "dashboard"
