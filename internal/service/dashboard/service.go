package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	attendanceService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/attendance"
	commissionService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/commission"
	payrollService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/payroll"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentEmployees = 8

type DashboardServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	itemRepo       commission.LineItemRepository
	pointRepo      payroll.PointRepository
	attendanceRepo attendance.AttendanceRepository
	grace          time.Duration
	loc            *time.Location
	now            func() time.Time
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	itemRepo commission.LineItemRepository,
	pointRepo payroll.PointRepository,
	attendanceRepo attendance.AttendanceRepository,
	grace time.Duration,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employeeRepo:   employeeRepo,
		itemRepo:       itemRepo,
		pointRepo:      pointRepo,
		attendanceRepo: attendanceRepo,
		grace:          grace,
		loc:            time.Local,
		now:            time.Now,
	}
}

// window returns the attendance window: the trailing WindowDays up to today, or the
// whole period when WindowDays is zero.
func (s *DashboardServiceImpl) window(req dashboard.OverviewRequest, period payroll.Period, now time.Time) (time.Time, time.Time) {
	if req.WindowDays > 0 {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
		return today.AddDate(0, 0, 1-req.WindowDays), today.AddDate(0, 0, 1)
	}
	return period.Start(s.loc), period.End(s.loc)
}

// Overview implements dashboard.DashboardService. All per-employee fetches run concurrently
// and are joined before totals are computed.
func (s *DashboardServiceImpl) Overview(ctx context.Context, req dashboard.OverviewRequest) (*dashboard.OverviewResponse, error) {
	now := s.now().In(s.loc)
	period := payroll.PeriodOf(now)
	if req.PeriodMonth != 0 || req.PeriodYear != 0 {
		period = payroll.Period{Year: req.PeriodYear, Month: req.PeriodMonth}
	}
	if !validator.IsValidPeriod(period.Month, period.Year) {
		return nil, validator.ValidationErrors{{Field: "period", Message: "month must be 1-12 and year 2000 or later"}}
	}
	if req.WindowDays < 0 {
		return nil, validator.ValidationErrors{{Field: "window_days", Message: "must be non-negative"}}
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{BranchID: req.BranchID, Status: req.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	from, to := s.window(req, period, now)
	periodFrom, periodTo := period.Start(s.loc), period.End(s.loc)

	rows := make([]dashboard.EmployeeOverview, len(employees))
	lines := make([]payroll.SalaryLine, len(employees))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmployees)
	for i, emp := range employees {
		g.Go(func() error {
			var (
				items   []commission.LineItem
				points  []payroll.PointEntry
				records []attendance.Record
			)

			eg, egCtx := errgroup.WithContext(gCtx)
			eg.Go(func() error {
				var err error
				items, err = s.itemRepo.List(egCtx, commission.LineItemFilter{EmployeeID: &emp.ID, From: &periodFrom, To: &periodTo})
				return err
			})
			eg.Go(func() error {
				var err error
				points, err = s.pointRepo.ListByEmployee(egCtx, emp.ID, period)
				return err
			})
			eg.Go(func() error {
				var err error
				records, err = s.attendanceRepo.ListByEmployee(egCtx, emp.ID, from, to)
				return err
			})
			if err := eg.Wait(); err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}

			line := payrollService.BuildSalaryLine(emp, commissionService.EarnedTotal(items), payrollService.SumPoints(points))
			quota := attendanceService.EvaluateQuota(emp.MaxAbsentDays, emp.CurrentAbsentDays)
			summary := attendanceService.Summarize(emp.ID, records, from, to, now, s.grace, quota)

			lines[i] = line
			rows[i] = toEmployeeOverview(emp, line, summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := payrollService.AggregatePeriodTotals(lines)
	overQuota := 0
	for _, r := range rows {
		if r.AbsenceStatus == string(attendance.QuotaOver) {
			overQuota++
		}
	}

	return &dashboard.OverviewResponse{
		Period:      period.String(),
		GeneratedAt: now.Format(time.RFC3339),
		Employees:   rows,
		Totals: dashboard.Totals{
			EmployeeCount:   totals.EmployeeCount,
			TotalBaseSalary: totals.TotalBaseSalary,
			TotalCommission: totals.TotalCommission,
			TotalNetPayroll: totals.TotalNetPayroll,
			OverQuotaCount:  overQuota,
		},
	}, nil
}

func toEmployeeOverview(emp employee.Employee, line payroll.SalaryLine, s attendance.Summary) dashboard.EmployeeOverview {
	return dashboard.EmployeeOverview{
		ID:                emp.ID,
		Name:              emp.Name,
		Role:              emp.Role,
		BranchID:          emp.BranchID,
		Status:            string(emp.Status),
		BaseSalary:        emp.BaseSalary,
		AttendanceRate:    s.AttendanceRate,
		PresentDays:       s.PresentDays,
		LateDays:          s.LateDays,
		OvertimeHours:     s.OvertimeHours,
		TotalCommission:   line.Commission,
		Bonus:             line.Bonus,
		Penalty:           line.Penalty,
		NetSalary:         line.NetSalary,
		AbsenceStatus:     string(s.Quota.Status),
		MaxAbsentDays:     s.Quota.MaxAbsentDays,
		CurrentAbsentDays: s.Quota.CurrentAbsentDays,
		RemainingDays:     s.Quota.RemainingDays,
		ExcessDays:        s.Quota.ExcessDays,
	}
}
