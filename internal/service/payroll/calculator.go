package payroll

import (
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ComputeNetSalary returns base + commission + bonus - penalty. The result is not clamped
// and may be negative.
func ComputeNetSalary(base, commission, bonus, penalty decimal.Decimal) decimal.Decimal {
	return base.Add(commission).Add(bonus).Sub(penalty)
}

// SumPoints totals bonus and penalty entries separately.
func SumPoints(entries []payroll.PointEntry) payroll.PointTotals {
	totals := payroll.PointTotals{Bonus: decimal.Zero, Penalty: decimal.Zero}
	for _, e := range entries {
		switch e.Type {
		case payroll.PointTypeBonus:
			totals.Bonus = totals.Bonus.Add(e.Amount)
		case payroll.PointTypePenalty:
			totals.Penalty = totals.Penalty.Add(e.Amount)
		}
	}
	return totals
}

func BuildSalaryLine(e employee.Employee, commission decimal.Decimal, points payroll.PointTotals) payroll.SalaryLine {
	return payroll.SalaryLine{
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Role:         e.Role,
		BranchID:     e.BranchID,
		BaseSalary:   e.BaseSalary,
		Commission:   commission,
		Bonus:        points.Bonus,
		Penalty:      points.Penalty,
		NetSalary:    ComputeNetSalary(e.BaseSalary, commission, points.Bonus, points.Penalty),
	}
}

// AggregatePeriodTotals sums the lines it is given. Filtering is the caller's job.
func AggregatePeriodTotals(lines []payroll.SalaryLine) payroll.PeriodTotals {
	totals := payroll.PeriodTotals{
		EmployeeCount:   len(lines),
		TotalBaseSalary: decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalBonus:      decimal.Zero,
		TotalPenalty:    decimal.Zero,
		TotalNetPayroll: decimal.Zero,
	}
	for _, l := range lines {
		totals.TotalBaseSalary = totals.TotalBaseSalary.Add(l.BaseSalary)
		totals.TotalCommission = totals.TotalCommission.Add(l.Commission)
		totals.TotalBonus = totals.TotalBonus.Add(l.Bonus)
		totals.TotalPenalty = totals.TotalPenalty.Add(l.Penalty)
		totals.TotalNetPayroll = totals.TotalNetPayroll.Add(l.NetSalary)
	}
	return totals
}

func GeneratePayslip(e employee.Employee, period payroll.Period, commission decimal.Decimal, points payroll.PointTotals, generatedAt time.Time) payroll.Payslip {
	line := BuildSalaryLine(e, commission, points)
	return payroll.Payslip{
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Email:        e.Email,
		Role:         e.Role,
		BranchID:     e.BranchID,
		Period:       period,
		BaseSalary:   line.BaseSalary,
		Commission:   line.Commission,
		Bonus:        line.Bonus,
		Penalty:      line.Penalty,
		NetSalary:    line.NetSalary,
		GeneratedAt:  generatedAt,
	}
}
