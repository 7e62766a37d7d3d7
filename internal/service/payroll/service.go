package payroll

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	commissionService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/commission"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the per-employee fan-out against the store.
const maxConcurrentFetches = 8

type PayrollServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	itemRepo     commission.LineItemRepository
	pointRepo    payroll.PointRepository
	loc          *time.Location
	now          func() time.Time
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	itemRepo commission.LineItemRepository,
	pointRepo payroll.PointRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo: employeeRepo,
		itemRepo:     itemRepo,
		pointRepo:    pointRepo,
		loc:          time.Local,
		now:          time.Now,
	}
}

// Helper to get the acting user id from JWT context
func getUserIDFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

func validatePeriod(period payroll.Period) error {
	if !validator.IsValidPeriod(period.Month, period.Year) {
		return validator.ValidationErrors{
			{Field: "period", Message: "month must be 1-12 and year 2000 or later"},
		}
	}
	return nil
}

// ========== SALARY ==========

// EarnedCommission sums the credited commission of employeeID's items sold within period.
func (s *PayrollServiceImpl) EarnedCommission(ctx context.Context, employeeID string, period payroll.Period) (decimal.Decimal, error) {
	from := period.Start(s.loc)
	to := period.End(s.loc)
	items, err := s.itemRepo.List(ctx, commission.LineItemFilter{EmployeeID: &employeeID, From: &from, To: &to})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load line items: %w", err)
	}
	return commissionService.EarnedTotal(items), nil
}

func (s *PayrollServiceImpl) pointTotals(ctx context.Context, employeeID string, period payroll.Period) (payroll.PointTotals, error) {
	entries, err := s.pointRepo.ListByEmployee(ctx, employeeID, period)
	if err != nil {
		return payroll.PointTotals{}, fmt.Errorf("failed to load bonus/penalty entries: %w", err)
	}
	return SumPoints(entries), nil
}

// salaryInputs fetches commission and points for one employee concurrently.
func (s *PayrollServiceImpl) salaryInputs(ctx context.Context, employeeID string, period payroll.Period) (decimal.Decimal, payroll.PointTotals, error) {
	var earned decimal.Decimal
	var points payroll.PointTotals

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		earned, err = s.EarnedCommission(gctx, employeeID, period)
		return err
	})
	g.Go(func() error {
		var err error
		points, err = s.pointTotals(gctx, employeeID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, payroll.PointTotals{}, err
	}
	return earned, points, nil
}

func (s *PayrollServiceImpl) Payslip(ctx context.Context, employeeID string, period payroll.Period) (payroll.PayslipResponse, error) {
	if err := validatePeriod(period); err != nil {
		return payroll.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	earned, points, err := s.salaryInputs(ctx, emp.ID, period)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip := GeneratePayslip(emp, period, earned, points, s.now())
	return toPayslipResponse(slip), nil
}

// SalaryLines computes one salary line per employee in the filtered set, in list order.
func (s *PayrollServiceImpl) SalaryLines(ctx context.Context, req payroll.SummaryRequest) ([]payroll.SalaryLine, error) {
	if err := validatePeriod(req.Period); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{BranchID: req.BranchID, Status: req.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	lines := make([]payroll.SalaryLine, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, emp := range employees {
		g.Go(func() error {
			earned, points, err := s.salaryInputs(gctx, emp.ID, req.Period)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			lines[i] = BuildSalaryLine(emp, earned, points)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *PayrollServiceImpl) Summary(ctx context.Context, req payroll.SummaryRequest) (payroll.SummaryResponse, error) {
	lines, err := s.SalaryLines(ctx, req)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	totals := AggregatePeriodTotals(lines)
	resp := payroll.SummaryResponse{
		Period:          req.Period.String(),
		Lines:           make([]payroll.SalaryLineResponse, 0, len(lines)),
		EmployeeCount:   totals.EmployeeCount,
		TotalBaseSalary: totals.TotalBaseSalary,
		TotalCommission: totals.TotalCommission,
		TotalBonus:      totals.TotalBonus,
		TotalPenalty:    totals.TotalPenalty,
		TotalNetPayroll: totals.TotalNetPayroll,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, toSalaryLineResponse(l))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) ExportWorkbook(ctx context.Context, req payroll.SummaryRequest, w io.Writer) error {
	lines, err := s.SalaryLines(ctx, req)
	if err != nil {
		return err
	}
	return WriteWorkbook(w, req.Period, lines, AggregatePeriodTotals(lines))
}

// ========== BONUS / PENALTY ==========

func (s *PayrollServiceImpl) AddPoint(ctx context.Context, req payroll.AddPointRequest) (payroll.PointResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PointResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.PointResponse{}, err
	}

	entry, err := s.pointRepo.Insert(ctx, payroll.PointEntry{
		EmployeeID: req.EmployeeID,
		Type:       payroll.PointType(req.Type),
		Amount:     req.Amount,
		Period:     payroll.Period{Year: req.PeriodYear, Month: req.PeriodMonth},
		Reason:     req.Reason,
		CreatedBy:  getUserIDFromContext(ctx),
	})
	if err != nil {
		return payroll.PointResponse{}, fmt.Errorf("failed to add %s: %w", req.Type, err)
	}

	return toPointResponse(entry), nil
}

func (s *PayrollServiceImpl) ListPoints(ctx context.Context, employeeID string, period payroll.Period) ([]payroll.PointResponse, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	entries, err := s.pointRepo.ListByEmployee(ctx, employeeID, period)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PointResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toPointResponse(e))
	}
	return result, nil
}

func (s *PayrollServiceImpl) DeletePoint(ctx context.Context, id string) error {
	return s.pointRepo.Delete(ctx, id)
}

// ========== HELPERS ==========

func toPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	return payroll.PayslipResponse{
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		Email:        p.Email,
		Role:         p.Role,
		BranchID:     p.BranchID,
		Period:       p.Period.String(),
		BaseSalary:   p.BaseSalary,
		Commission:   p.Commission,
		Bonus:        p.Bonus,
		Penalty:      p.Penalty,
		NetSalary:    p.NetSalary,
		GeneratedAt:  p.GeneratedAt.Format(time.RFC3339),
	}
}

func toSalaryLineResponse(l payroll.SalaryLine) payroll.SalaryLineResponse {
	return payroll.SalaryLineResponse{
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		Role:         l.Role,
		BranchID:     l.BranchID,
		BaseSalary:   l.BaseSalary,
		Commission:   l.Commission,
		Bonus:        l.Bonus,
		Penalty:      l.Penalty,
		NetSalary:    l.NetSalary,
	}
}

func toPointResponse(e payroll.PointEntry) payroll.PointResponse {
	return payroll.PointResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		PeriodMonth: e.Period.Month,
		PeriodYear:  e.Period.Year,
		Reason:      e.Reason,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
