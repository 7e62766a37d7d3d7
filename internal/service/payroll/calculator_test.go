package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestComputeNetSalary(t *testing.T) {
	net := ComputeNetSalary(d(3000000), d(500000), d(100000), d(50000))
	assert.Equal(t, "3550000", net.String())
}

func TestComputeNetSalary_NegativeIsPreserved(t *testing.T) {
	net := ComputeNetSalary(d(0), d(0), d(0), d(250000))
	assert.Equal(t, "-250000", net.String())
	assert.True(t, net.IsNegative())
}

func TestSumPoints(t *testing.T) {
	entries := []payroll.PointEntry{
		{Type: payroll.PointTypeBonus, Amount: d(100000)},
		{Type: payroll.PointTypeBonus, Amount: d(25000)},
		{Type: payroll.PointTypePenalty, Amount: d(50000)},
	}

	totals := SumPoints(entries)

	assert.Equal(t, "125000", totals.Bonus.String())
	assert.Equal(t, "50000", totals.Penalty.String())

	empty := SumPoints(nil)
	assert.True(t, empty.Bonus.IsZero())
	assert.True(t, empty.Penalty.IsZero())
}

func TestAggregatePeriodTotals(t *testing.T) {
	a := employee.Employee{ID: "a", Name: "Andi", BaseSalary: d(3000000)}
	b := employee.Employee{ID: "b", Name: "Rina", BaseSalary: d(2500000)}
	lines := []payroll.SalaryLine{
		BuildSalaryLine(a, d(500000), payroll.PointTotals{Bonus: d(100000), Penalty: d(50000)}),
		BuildSalaryLine(b, d(0), payroll.PointTotals{Bonus: d(0), Penalty: d(3000000)}),
	}

	totals := AggregatePeriodTotals(lines)

	assert.Equal(t, 2, totals.EmployeeCount)
	assert.Equal(t, "5500000", totals.TotalBaseSalary.String())
	assert.Equal(t, "500000", totals.TotalCommission.String())
	assert.Equal(t, "100000", totals.TotalBonus.String())
	assert.Equal(t, "3050000", totals.TotalPenalty.String())
	// 3,550,000 + (-500,000)
	assert.Equal(t, "3050000", totals.TotalNetPayroll.String())
}

func TestAggregatePeriodTotals_Empty(t *testing.T) {
	totals := AggregatePeriodTotals(nil)
	assert.Equal(t, 0, totals.EmployeeCount)
	assert.True(t, totals.TotalNetPayroll.IsZero())
}

func TestGeneratePayslip(t *testing.T) {
	emp := employee.Employee{
		ID: "emp-1", Name: "Andi", Email: "andi@barber.test", Role: "senior barber",
		BranchID: "br-1", BaseSalary: d(3000000),
	}
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	period := payroll.Period{Year: 2025, Month: 3}

	slip := GeneratePayslip(emp, period, d(500000), payroll.PointTotals{Bonus: d(100000), Penalty: d(50000)}, at)

	assert.Equal(t, "emp-1", slip.EmployeeID)
	assert.Equal(t, "andi@barber.test", slip.Email)
	assert.Equal(t, period, slip.Period)
	assert.Equal(t, "500000", slip.Commission.String())
	assert.Equal(t, "3550000", slip.NetSalary.String())
	assert.Equal(t, at, slip.GeneratedAt)
}
