package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Start is the first instant of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
}

// End is the first instant of the following period (exclusive bound).
func (p Period) End(loc *time.Location) time.Time {
	return p.Start(loc).AddDate(0, 1, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// PointType enum
type PointType string

const (
	PointTypeBonus   PointType = "bonus"
	PointTypePenalty PointType = "penalty"
)

func (t PointType) IsValid() bool {
	return t == PointTypeBonus || t == PointTypePenalty
}

// PointEntry is an append-only bonus or penalty for one employee in one period.
type PointEntry struct {
	ID         string
	EmployeeID string
	Type       PointType
	Amount     decimal.Decimal
	Period     Period
	Reason     *string
	CreatedBy  *string
	CreatedAt  time.Time
}

// PointTotals is the per-period sum of an employee's entries.
type PointTotals struct {
	Bonus   decimal.Decimal
	Penalty decimal.Decimal
}

// SalaryLine is one employee's payroll arithmetic for a period.
type SalaryLine struct {
	EmployeeID   string
	EmployeeName string
	Role         string
	BranchID     string
	BaseSalary   decimal.Decimal
	Commission   decimal.Decimal
	Bonus        decimal.Decimal
	Penalty      decimal.Decimal
	NetSalary    decimal.Decimal
}

// PeriodTotals sums salary lines over whatever employee set it was given.
type PeriodTotals struct {
	EmployeeCount   int
	TotalBaseSalary decimal.Decimal
	TotalCommission decimal.Decimal
	TotalBonus      decimal.Decimal
	TotalPenalty    decimal.Decimal
	TotalNetPayroll decimal.Decimal
}

// Payslip is a printable projection of a salary line.
type Payslip struct {
	EmployeeID   string
	EmployeeName string
	Email        string
	Role         string
	BranchID     string
	Period       Period
	BaseSalary   decimal.Decimal
	Commission   decimal.Decimal
	Bonus        decimal.Decimal
	Penalty      decimal.Decimal
	NetSalary    decimal.Decimal
	GeneratedAt  time.Time
}
