package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Overview(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil)
	employees := memory.NewEmployeeRepository(store)
	items := memory.NewLineItemRepository(store)
	points := memory.NewPointRepository(store)
	records := memory.NewAttendanceRepository(store)

	svc := NewDashboardService(employees, items, points, records, 15*time.Minute).(*DashboardServiceImpl)
	svc.loc = time.UTC
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC) }

	andi, err := employees.Create(ctx, employee.Employee{
		Name: "Andi", Email: "andi@barber.test", Role: "barber", BranchID: "br-1",
		Status: employee.StatusActive, BaseSalary: decimal.NewFromInt(3000000),
		MaxAbsentDays: 4, CurrentAbsentDays: 6,
	})
	require.NoError(t, err)
	_, err = employees.Create(ctx, employee.Employee{
		Name: "Budi", Email: "budi@barber.test", Role: "barber", BranchID: "br-1",
		Status: employee.StatusActive, BaseSalary: decimal.NewFromInt(2000000),
		MaxAbsentDays: 4, CurrentAbsentDays: 1,
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(500000)
	item, err := items.Insert(ctx, commission.LineItem{
		TransactionDate: time.Date(2025, 3, 2, 11, 0, 0, 0, time.UTC),
		Kind:            commission.ItemKindService,
		EmployeeID:      andi.ID,
		Quantity:        1,
		UnitPrice:       decimal.NewFromInt(5000000),
	})
	require.NoError(t, err)
	_, err = items.UpdateCommission(ctx, item.ID, commission.Outcome{Status: commission.StatusCredited, Amount: &amount})
	require.NoError(t, err)

	_, err = points.Insert(ctx, payroll.PointEntry{
		EmployeeID: andi.ID, Type: payroll.PointTypePenalty, Amount: decimal.NewFromInt(50000),
		Period: payroll.Period{Year: 2025, Month: 3},
	})
	require.NoError(t, err)

	in := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err = records.Insert(ctx, attendance.Record{
		EmployeeID: andi.ID, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckIn: &in, Status: attendance.StatusCheckedIn, Shift: attendance.ShiftPagi,
	})
	require.NoError(t, err)

	// Act
	resp, err := svc.Overview(ctx, dashboard.OverviewRequest{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2025-03", resp.Period)
	require.Len(t, resp.Employees, 2)

	a := resp.Employees[0]
	assert.Equal(t, "Andi", a.Name)
	assert.Equal(t, "500000", a.TotalCommission.String())
	assert.Equal(t, "3450000", a.NetSalary.String())
	assert.Equal(t, 25, a.AttendanceRate) // 1 of 4 days so far
	assert.Equal(t, string(attendance.QuotaOver), a.AbsenceStatus)
	assert.Equal(t, -2, a.RemainingDays)
	assert.Equal(t, 2, a.ExcessDays)

	b := resp.Employees[1]
	assert.Equal(t, 0, b.AttendanceRate)
	assert.Equal(t, string(attendance.QuotaWithin), b.AbsenceStatus)

	assert.Equal(t, 2, resp.Totals.EmployeeCount)
	assert.Equal(t, "5000000", resp.Totals.TotalBaseSalary.String())
	assert.Equal(t, "500000", resp.Totals.TotalCommission.String())
	assert.Equal(t, "5450000", resp.Totals.TotalNetPayroll.String())
	assert.Equal(t, 1, resp.Totals.OverQuotaCount)
}

func TestDashboardService_Overview_InvalidPeriod(t *testing.T) {
	store := memory.NewStore(nil)
	svc := NewDashboardService(
		memory.NewEmployeeRepository(store),
		memory.NewLineItemRepository(store),
		memory.NewPointRepository(store),
		memory.NewAttendanceRepository(store),
		0,
	)

	_, err := svc.Overview(context.Background(), dashboard.OverviewRequest{PeriodMonth: 13, PeriodYear: 2025})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("period"))
}
