package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attendanceFixture struct {
	employees employee.EmployeeRepository
	records   attendance.AttendanceRepository
	service   *AttendanceServiceImpl
	clock     time.Time
}

func newAttendanceFixture(t *testing.T, now time.Time) *attendanceFixture {
	t.Helper()
	store := memory.NewStore(nil)
	f := &attendanceFixture{
		employees: memory.NewEmployeeRepository(store),
		records:   memory.NewAttendanceRepository(store),
		clock:     now,
	}
	svc := NewAttendanceService(store, f.records, f.employees, grace).(*AttendanceServiceImpl)
	svc.loc = time.UTC
	svc.now = func() time.Time { return f.clock }
	f.service = svc
	return f
}

func (f *attendanceFixture) addEmployee(t *testing.T, name string, maxAbsent, currentAbsent int) employee.Employee {
	t.Helper()
	e, err := f.employees.Create(context.Background(), employee.Employee{
		Name:              name,
		Email:             name + "@barber.test",
		Role:              "barber",
		BranchID:          "br-1",
		Status:            employee.StatusActive,
		BaseSalary:        decimal.NewFromInt(2500000),
		MaxAbsentDays:     maxAbsent,
		CurrentAbsentDays: currentAbsent,
	})
	require.NoError(t, err)
	return e
}

// ===== CHECK-IN / CHECK-OUT TESTS =====

func TestAttendanceService_CheckInOut(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 0)

	// Act
	in, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: emp.ID, Shift: "pagi"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)
	assert.Equal(t, string(attendance.StatusCheckedIn), in.Status)
	assert.Equal(t, string(attendance.DayPresent), in.DayClass)
	assert.Equal(t, "br-1", in.BranchID)

	_, err = f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: emp.ID, Shift: "pagi"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	f.clock = time.Date(2025, 3, 10, 17, 5, 0, 0, time.UTC)
	out, err := f.service.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: emp.ID})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusCheckedOut), out.Status)
	require.NotNil(t, out.CheckOut)

	_, err = f.service.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: emp.ID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_CheckOutWithoutCheckIn(t *testing.T) {
	f := newAttendanceFixture(t, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 0)

	_, err := f.service.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: emp.ID})

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_CheckIn_Validation(t *testing.T) {
	f := newAttendanceFixture(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	_, err := f.service.CheckIn(context.Background(), attendance.CheckInRequest{Shift: "subuh"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("employee_id"))
	assert.True(t, verrs.Has("shift"))
}

func TestAttendanceService_RejectsFutureTimestamps(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 0)
	future := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)

	// Act
	_, inErr := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: emp.ID, Shift: "pagi", At: &future})
	_, outErr := f.service.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: emp.ID, At: &future})
	_, absentErr := f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: "2025-03-05", Shift: "pagi"})

	// Assert
	for _, err := range []error{inErr, outErr} {
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("at"))
	}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, absentErr, &verrs)
	assert.True(t, verrs.Has("date"))

	records, err := f.records.ListByEmployee(ctx, emp.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, records)
}

// ===== ABSENCE TESTS =====

func TestAttendanceService_MarkAbsent_BumpsTally(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 3)

	rec, err := f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: "2025-03-19", Shift: "pagi"})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.DayAbsent), rec.DayClass)

	updated, err := f.employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.CurrentAbsentDays)

	_, err = f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: "2025-03-19", Shift: "pagi"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	// A checked-in day cannot also be marked absent
	in := time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC)
	_, err = f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: emp.ID, Shift: "pagi", At: &in})
	require.NoError(t, err)
	_, err = f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: "2025-03-20", Shift: "pagi"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
	assert.NotErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// Previous month does not touch the current tally
	_, err = f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: "2025-02-10", Shift: "pagi"})
	require.NoError(t, err)
	updated, err = f.employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.CurrentAbsentDays)
}

func TestAttendanceService_UpdateQuota_NotRetroactive(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 5)

	resp, err := f.service.UpdateQuota(ctx, attendance.UpdateQuotaRequest{EmployeeID: emp.ID, MaxAbsentDays: 6})

	require.NoError(t, err)
	assert.Equal(t, 6, resp.MaxAbsentDays)
	assert.Equal(t, 5, resp.CurrentAbsentDays)
	assert.Equal(t, 1, resp.RemainingDays)
	assert.Equal(t, string(attendance.QuotaNearLimit), resp.Status)

	_, err = f.service.UpdateQuota(ctx, attendance.UpdateQuotaRequest{EmployeeID: "missing", MaxAbsentDays: 6})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_RecountAbsences(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC))
	andi := f.addEmployee(t, "andi", 4, 9)
	budi := f.addEmployee(t, "budi", 4, 0)

	for _, day := range []string{"2025-03-03", "2025-03-04"} {
		_, err := f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: budi.ID, Date: day, Shift: "siang"})
		require.NoError(t, err)
	}
	// budi is now at 2 through MarkAbsent; force drift to check the recount
	drift := 7
	_, err := f.employees.Update(ctx, budi.ID, employee.UpdateFields{CurrentAbsentDays: &drift})
	require.NoError(t, err)

	changed, err := f.service.RecountAbsences(ctx, f.clock)

	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	got, err := f.employees.GetByID(ctx, andi.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentAbsentDays)
	got, err = f.employees.GetByID(ctx, budi.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentAbsentDays)
}

// ===== SUMMARY TESTS =====

func TestAttendanceService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 0)

	in := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	_, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: emp.ID, Shift: "pagi", At: &in})
	require.NoError(t, err)
	out := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	_, err = f.service.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: emp.ID, At: &out})
	require.NoError(t, err)

	f.clock = time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	_, err = f.service.MarkAbsent(ctx, attendance.MarkAbsentRequest{EmployeeID: emp.ID, Date: "2025-03-04", Shift: "pagi"})
	require.NoError(t, err)

	// Act
	summary, err := f.service.Summary(ctx, emp.ID,
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, summary.WorkDays)
	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 50, summary.AttendanceRate)
	assert.Equal(t, 2.0, summary.OvertimeHours)
	assert.Equal(t, 1, summary.Quota.CurrentAbsentDays)
	assert.Equal(t, string(attendance.QuotaWithin), summary.Quota.Status)
}

func TestAttendanceService_Summary_EmptyWindow(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC))
	emp := f.addEmployee(t, "andi", 4, 0)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	summary, err := f.service.Summary(ctx, emp.ID, day, day)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.WorkDays)
	assert.Equal(t, 0, summary.AttendanceRate)

	_, err = f.service.Summary(ctx, emp.ID, day, day.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, attendance.ErrInvalidWindow)
}
