package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, db *database.DB, name, email string) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(db)
	emp, err := repo.Create(context.Background(), employee.Employee{
		Name:          name,
		Email:         email,
		Role:          "barber",
		BranchID:      "branch-1",
		Status:        employee.StatusActive,
		BaseSalary:    decimal.NewFromInt(3000000),
		MaxAbsentDays: employee.DefaultMaxAbsentDays,
	})
	require.NoError(t, err)
	return emp
}

// ===== EMPLOYEE TESTS =====

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	t.Run("create and get", func(t *testing.T) {
		created := createEmployee(t, setup.DB, "Budi", "budi@example.com")

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Budi", got.Name)
		assert.True(t, decimal.NewFromInt(3000000).Equal(got.BaseSalary))
		assert.Equal(t, employee.StatusActive, got.Status)
		assert.False(t, got.HiredAt.IsZero())
	})

	t.Run("duplicate email is case insensitive", func(t *testing.T) {
		_, err := repo.Create(ctx, employee.Employee{
			Name: "Other", Email: "BUDI@example.com", Role: "barber", Status: employee.StatusActive,
		})
		assert.ErrorIs(t, err, employee.ErrEmailExists)
	})

	t.Run("update and filter", func(t *testing.T) {
		created := createEmployee(t, setup.DB, "Sari", "sari@example.com")
		branch := "branch-2"
		quota := 6

		updated, err := repo.Update(ctx, created.ID, employee.UpdateFields{BranchID: &branch, MaxAbsentDays: &quota})
		require.NoError(t, err)
		assert.Equal(t, 6, updated.MaxAbsentDays)

		list, err := repo.List(ctx, employee.EmployeeFilter{BranchID: &branch})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)

		search := "SAR"
		list, err = repo.List(ctx, employee.EmployeeFilter{Search: &search})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		name := "x"
		_, err = repo.Update(ctx, "missing", employee.UpdateFields{Name: &name})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), employee.ErrEmployeeNotFound)
	})
}

// ===== COMMISSION TESTS =====

func TestCommissionRuleRepository_UpsertKeepsOneRulePerPair(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCommissionRuleRepository(setup.DB)
	emp := createEmployee(t, setup.DB, "Budi", "budi@example.com")

	first, err := repo.Upsert(ctx, commission.Rule{
		EmployeeID: emp.ID, ServiceID: "haircut", Type: commission.RuleTypePercentage, Value: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, commission.Rule{
		EmployeeID: emp.ID, ServiceID: "haircut", Type: commission.RuleTypeFixed, Value: decimal.NewFromInt(15000),
	})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, commission.RuleTypeFixed, second.Type)

	rules, err := repo.ListByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	_, err = repo.GetByEmployeeService(ctx, emp.ID, "shave")
	assert.ErrorIs(t, err, commission.ErrRuleNotFound)
}

func TestLineItemRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLineItemRepository(setup.DB)
	emp := createEmployee(t, setup.DB, "Budi", "budi@example.com")
	date := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	product, err := repo.Insert(ctx, commission.LineItem{
		TransactionNumber: "TRX-1", TransactionDate: date, Kind: commission.ItemKindProduct,
		ServiceName: "Pomade", EmployeeID: emp.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(60000),
	})
	require.NoError(t, err)
	assert.Equal(t, commission.StatusNoCommission, product.CommissionStatus)
	require.NotNil(t, product.EmployeeName)
	assert.Equal(t, "Budi", *product.EmployeeName)

	service, err := repo.Insert(ctx, commission.LineItem{
		TransactionNumber: "TRX-2", TransactionDate: date.Add(time.Hour), Kind: commission.ItemKindService,
		ServiceID: "haircut", ServiceName: "Haircut", EmployeeID: emp.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	assert.Equal(t, commission.StatusPending, service.CommissionStatus)

	_, err = repo.Insert(ctx, commission.LineItem{
		ID: service.ID, TransactionNumber: "TRX-2", TransactionDate: date, Kind: commission.ItemKindService,
		ServiceName: "Haircut", EmployeeID: emp.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, commission.ErrLineItemAlreadyExists)

	t.Run("update commission", func(t *testing.T) {
		ruleType := commission.RuleTypePercentage
		value := decimal.NewFromInt(10)
		amount := decimal.NewFromInt(10000)
		creditedAt := date.Add(2 * time.Hour)

		updated, err := repo.UpdateCommission(ctx, service.ID, commission.Outcome{
			Status: commission.StatusCredited, Type: &ruleType, Value: &value, Amount: &amount, CreditedAt: &creditedAt,
		})
		require.NoError(t, err)
		assert.Equal(t, commission.StatusCredited, updated.CommissionStatus)
		require.NotNil(t, updated.CommissionAmount)
		assert.True(t, amount.Equal(*updated.CommissionAmount))

		_, err = repo.UpdateCommission(ctx, "missing", commission.Outcome{Status: commission.StatusCredited})
		assert.ErrorIs(t, err, commission.ErrLineItemNotFound)
	})

	t.Run("list newest first with filters", func(t *testing.T) {
		items, err := repo.List(ctx, commission.LineItemFilter{})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, service.ID, items[0].ID)

		kind := string(commission.ItemKindProduct)
		items, err = repo.List(ctx, commission.LineItemFilter{Kind: &kind})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, product.ID, items[0].ID)

		to := date.Add(30 * time.Minute)
		items, err = repo.List(ctx, commission.LineItemFilter{To: &to})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

// ===== PAYROLL TESTS =====

func TestPointEntryRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPointEntryRepository(setup.DB)
	emp := createEmployee(t, setup.DB, "Budi", "budi@example.com")
	period := payroll.Period{Year: 2025, Month: 3}

	bonus, err := repo.Insert(ctx, payroll.PointEntry{
		EmployeeID: emp.ID, Type: payroll.PointTypeBonus, Amount: decimal.NewFromInt(200000), Period: period,
	})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, payroll.PointEntry{
		EmployeeID: emp.ID, Type: payroll.PointTypePenalty, Amount: decimal.NewFromInt(50000),
		Period: payroll.Period{Year: 2025, Month: 4},
	})
	require.NoError(t, err)

	entries, err := repo.ListByEmployee(ctx, emp.ID, period)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, bonus.ID, entries[0].ID)
	assert.Equal(t, period, entries[0].Period)

	require.NoError(t, repo.Delete(ctx, bonus.ID))
	assert.ErrorIs(t, repo.Delete(ctx, bonus.ID), payroll.ErrPointNotFound)

	entries, err = repo.ListByPeriod(ctx, period)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// ===== ATTENDANCE TESTS =====

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	emp := createEmployee(t, setup.DB, "Budi", "budi@example.com")
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(8 * time.Hour)

	rec, err := repo.Insert(ctx, attendance.Record{
		EmployeeID: emp.ID, Date: day, CheckIn: &checkIn, Status: attendance.StatusCheckedIn,
		Shift: attendance.ShiftPagi, BranchID: emp.BranchID,
	})
	require.NoError(t, err)

	_, err = repo.Insert(ctx, attendance.Record{
		EmployeeID: emp.ID, Date: day, Status: attendance.StatusAbsent, Shift: attendance.ShiftPagi,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	checkOut := day.Add(18 * time.Hour)
	status := attendance.StatusCheckedOut
	updated, err := repo.Update(ctx, rec.ID, attendance.UpdateFields{CheckOut: &checkOut, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedOut, updated.Status)
	require.NotNil(t, updated.CheckOut)
	assert.True(t, checkOut.Equal(*updated.CheckOut))

	got, err := repo.GetByEmployeeDate(ctx, emp.ID, day)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = repo.GetByEmployeeDate(ctx, emp.ID, day.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	records, err := repo.ListByEmployee(ctx, emp.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = repo.ListByRange(ctx, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, records)
}

// ===== TRANSACTION & CHANGE FEED TESTS =====

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(setup.DB)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, employee.Employee{
			Name: "Ghost", Email: "ghost@example.com", Role: "barber", Status: employee.StatusActive,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repo.List(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPGListener_RelaysTriggerNotifications(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := changefeed.NewHubFeed(sse.NewHub())
	got := make(chan changefeed.Change, 4)
	unsubscribe := feed.Subscribe(changefeed.TableEmployees, func(c changefeed.Change) { got <- c })
	defer unsubscribe()

	listener := changefeed.NewPGListener(setup.DB, feed, "")
	go listener.RunWithRetry(ctx, 100*time.Millisecond)

	// LISTEN is asynchronous; keep inserting until the first notification arrives
	var emp employee.Employee
	require.Eventually(t, func() bool {
		if emp.ID == "" {
			emp = createEmployee(t, setup.DB, "Budi", "budi@example.com")
		} else {
			name := "Budi " + time.Now().Format("150405.000")
			_, err := postgresql.NewEmployeeRepository(setup.DB).Update(ctx, emp.ID, employee.UpdateFields{Name: &name})
			require.NoError(t, err)
		}
		select {
		case c := <-got:
			return c.Table == changefeed.TableEmployees && c.ID == emp.ID
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}
