package payroll

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var march2025 = payroll.Period{Year: 2025, Month: 3}

type payrollFixture struct {
	employees employee.EmployeeRepository
	items     commission.LineItemRepository
	points    payroll.PointRepository
	service   payroll.PayrollService
}

func newPayrollFixture(t *testing.T) *payrollFixture {
	t.Helper()
	store := memory.NewStore(nil)
	f := &payrollFixture{
		employees: memory.NewEmployeeRepository(store),
		items:     memory.NewLineItemRepository(store),
		points:    memory.NewPointRepository(store),
	}
	f.service = NewPayrollService(f.employees, f.items, f.points)
	return f
}

func (f *payrollFixture) addEmployee(t *testing.T, name, branch string, base int64) employee.Employee {
	t.Helper()
	e, err := f.employees.Create(context.Background(), employee.Employee{
		Name:       name,
		Email:      name + "@barber.test",
		Role:       "barber",
		BranchID:   branch,
		Status:     employee.StatusActive,
		BaseSalary: decimal.NewFromInt(base),
	})
	require.NoError(t, err)
	return e
}

func (f *payrollFixture) addCredited(t *testing.T, employeeID string, at time.Time, amount int64) {
	t.Helper()
	amt := decimal.NewFromInt(amount)
	item, err := f.items.Insert(context.Background(), commission.LineItem{
		TransactionDate: at,
		Kind:            commission.ItemKindService,
		ServiceID:       "svc-haircut",
		EmployeeID:      employeeID,
		Quantity:        1,
		UnitPrice:       decimal.NewFromInt(amount * 10),
	})
	require.NoError(t, err)
	fixed := commission.RuleTypeFixed
	_, err = f.items.UpdateCommission(context.Background(), item.ID, commission.Outcome{
		Status: commission.StatusCredited, Type: &fixed, Value: &amt, Amount: &amt, CreditedAt: &at,
	})
	require.NoError(t, err)
}

func (f *payrollFixture) addPoint(t *testing.T, employeeID string, pt payroll.PointType, amount int64) {
	t.Helper()
	_, err := f.service.AddPoint(context.Background(), payroll.AddPointRequest{
		EmployeeID:  employeeID,
		Type:        string(pt),
		Amount:      decimal.NewFromInt(amount),
		PeriodMonth: march2025.Month,
		PeriodYear:  march2025.Year,
	})
	require.NoError(t, err)
}

func inMarch(day int) time.Time {
	return time.Date(2025, 3, day, 13, 0, 0, 0, time.Local)
}

// ===== PAYSLIP TESTS =====

func TestPayrollService_Payslip(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	emp := f.addEmployee(t, "andi", "br-1", 3000000)
	f.addCredited(t, emp.ID, inMarch(3), 300000)
	f.addCredited(t, emp.ID, inMarch(20), 200000)
	f.addCredited(t, emp.ID, time.Date(2025, 4, 2, 10, 0, 0, 0, time.Local), 999000)
	f.addPoint(t, emp.ID, payroll.PointTypeBonus, 100000)
	f.addPoint(t, emp.ID, payroll.PointTypePenalty, 50000)

	// Act
	slip, err := f.service.Payslip(ctx, emp.ID, march2025)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2025-03", slip.Period)
	assert.Equal(t, "500000", slip.Commission.String())
	assert.Equal(t, "100000", slip.Bonus.String())
	assert.Equal(t, "50000", slip.Penalty.String())
	assert.Equal(t, "3550000", slip.NetSalary.String())
}

func TestPayrollService_Payslip_PendingCommissionNotCounted(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	emp := f.addEmployee(t, "rina", "br-1", 2000000)
	_, err := f.items.Insert(ctx, commission.LineItem{
		TransactionDate: inMarch(5),
		Kind:            commission.ItemKindService,
		EmployeeID:      emp.ID,
		Quantity:        1,
		UnitPrice:       decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	slip, err := f.service.Payslip(ctx, emp.ID, march2025)

	require.NoError(t, err)
	assert.True(t, slip.Commission.IsZero())
	assert.Equal(t, "2000000", slip.NetSalary.String())
}

func TestPayrollService_Payslip_Errors(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)

	_, err := f.service.Payslip(ctx, "missing", march2025)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.Payslip(ctx, "missing", payroll.Period{Year: 2025, Month: 13})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("period"))
}

// ===== SUMMARY TESTS =====

func TestPayrollService_Summary_UsesFilteredSet(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	andi := f.addEmployee(t, "andi", "br-1", 3000000)
	budi := f.addEmployee(t, "budi", "br-1", 2500000)
	other := f.addEmployee(t, "citra", "br-2", 4000000)
	f.addCredited(t, andi.ID, inMarch(3), 500000)
	f.addCredited(t, other.ID, inMarch(3), 700000)
	f.addPoint(t, budi.ID, payroll.PointTypePenalty, 100000)

	branch := "br-1"
	resp, err := f.service.Summary(ctx, payroll.SummaryRequest{Period: march2025, BranchID: &branch})

	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, andi.ID, resp.Lines[0].EmployeeID)
	assert.Equal(t, budi.ID, resp.Lines[1].EmployeeID)
	assert.Equal(t, 2, resp.EmployeeCount)
	assert.Equal(t, "5500000", resp.TotalBaseSalary.String())
	assert.Equal(t, "500000", resp.TotalCommission.String())
	assert.Equal(t, "5900000", resp.TotalNetPayroll.String())
}

func TestPayrollService_ExportWorkbook(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	andi := f.addEmployee(t, "andi", "br-1", 3000000)
	f.addEmployee(t, "budi", "br-1", 2500000)
	f.addCredited(t, andi.ID, inMarch(3), 500000)

	var buf bytes.Buffer
	err := f.service.ExportWorkbook(ctx, payroll.SummaryRequest{Period: march2025}, &buf)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Payroll 2025-03")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, workbookColumns, rows[0])
	assert.Equal(t, "andi", rows[1][0])
	assert.Equal(t, "3500000", rows[1][7])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "6000000", rows[3][7])
}

// ===== POINT TESTS =====

func TestPayrollService_AddPoint_Validation(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	emp := f.addEmployee(t, "andi", "br-1", 3000000)

	_, err := f.service.AddPoint(ctx, payroll.AddPointRequest{
		EmployeeID:  emp.ID,
		Type:        "gift",
		Amount:      decimal.Zero,
		PeriodMonth: 0,
		PeriodYear:  2025,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("type"))
	assert.True(t, verrs.Has("amount"))
	assert.True(t, verrs.Has("period_month"))
}

func TestPayrollService_AddPoint_UnknownEmployee(t *testing.T) {
	f := newPayrollFixture(t)

	_, err := f.service.AddPoint(context.Background(), payroll.AddPointRequest{
		EmployeeID: "missing", Type: "bonus", Amount: decimal.NewFromInt(1000), PeriodMonth: 3, PeriodYear: 2025,
	})

	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))
}

func TestPayrollService_ListAndDeletePoints(t *testing.T) {
	ctx := context.Background()
	f := newPayrollFixture(t)
	emp := f.addEmployee(t, "andi", "br-1", 3000000)
	f.addPoint(t, emp.ID, payroll.PointTypeBonus, 100000)
	f.addPoint(t, emp.ID, payroll.PointTypePenalty, 20000)

	points, err := f.service.ListPoints(ctx, emp.ID, march2025)
	require.NoError(t, err)
	require.Len(t, points, 2)

	require.NoError(t, f.service.DeletePoint(ctx, points[0].ID))
	assert.ErrorIs(t, f.service.DeletePoint(ctx, points[0].ID), payroll.ErrPointNotFound)

	points, err = f.service.ListPoints(ctx, emp.ID, payroll.Period{Year: 2025, Month: 4})
	require.NoError(t, err)
	assert.Empty(t, points)
}
