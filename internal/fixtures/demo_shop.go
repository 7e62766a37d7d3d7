package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

func idr(amount int64) decimal.Decimal { return decimal.NewFromInt(amount) }

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDataIDs holds IDs of all seeded demo data
type SeededDataIDs struct {
	// Employee IDs by name
	EmployeeIDs map[string]string // e.g., "Budi Santoso" -> "uuid"

	// Line item IDs in insertion order
	LineItemIDs []string
}

func NewSeededDataIDs() *SeededDataIDs {
	return &SeededDataIDs{EmployeeIDs: make(map[string]string)}
}

// Repositories is the set of stores the demo seed writes to
type Repositories struct {
	Employees  employee.EmployeeRepository
	LineItems  commission.LineItemRepository
	Points     payroll.PointRepository
	Attendance attendance.AttendanceRepository
}

// ==========================================
// DEFAULT EMPLOYEES
// ==========================================

// GetDefaultEmployees returns the staff of the demo shop
func GetDefaultEmployees(branchID string) []employee.Employee {
	return []employee.Employee{
		{Name: "Budi Santoso", Email: "budi@barbershop.local", Phone: "081200000001", Role: "Senior Barber", BranchID: branchID, Status: employee.StatusActive, BaseSalary: idr(4500000), MaxAbsentDays: employee.DefaultMaxAbsentDays},
		{Name: "Andi Pratama", Email: "andi@barbershop.local", Phone: "081200000002", Role: "Barber", BranchID: branchID, Status: employee.StatusActive, BaseSalary: idr(3500000), MaxAbsentDays: employee.DefaultMaxAbsentDays},
		{Name: "Siti Rahma", Email: "siti@barbershop.local", Phone: "081200000003", Role: "Stylist", BranchID: branchID, Status: employee.StatusActive, BaseSalary: idr(3800000), MaxAbsentDays: employee.DefaultMaxAbsentDays},
		{Name: "Dewi Lestari", Email: "dewi@barbershop.local", Phone: "081200000004", Role: "Cashier", BranchID: branchID, Status: employee.StatusOnLeave, BaseSalary: idr(3200000), MaxAbsentDays: employee.DefaultMaxAbsentDays},
	}
}

// ==========================================
// DEFAULT SERVICES
// ==========================================

type serviceItem struct {
	ID    string
	Name  string
	Kind  commission.ItemKind
	Price decimal.Decimal
}

// catalog is the demo POS menu
var catalog = []serviceItem{
	{ID: "svc-haircut", Name: "Haircut", Kind: commission.ItemKindService, Price: idr(50000)},
	{ID: "svc-shave", Name: "Hot Towel Shave", Kind: commission.ItemKindService, Price: idr(35000)},
	{ID: "svc-coloring", Name: "Hair Coloring", Kind: commission.ItemKindService, Price: idr(150000)},
	{ID: "prd-pomade", Name: "Pomade", Kind: commission.ItemKindProduct, Price: idr(85000)},
}

// ==========================================
// SEEDING
// ==========================================

// SeedDemoShop fills empty repositories with a small shop: staff, a week of transactions,
// attendance for the current month so far and a couple of point entries.
func SeedDemoShop(ctx context.Context, repos Repositories, now time.Time) (*SeededDataIDs, error) {
	ids := NewSeededDataIDs()

	var staff []employee.Employee
	for _, e := range GetDefaultEmployees("main") {
		created, err := repos.Employees.Create(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("seed employee %s: %w", e.Name, err)
		}
		ids.EmployeeIDs[created.Name] = created.ID
		staff = append(staff, created)
	}

	// One transaction per day for the last week, rotating barbers through the menu
	for day := 0; day < 7; day++ {
		date := now.AddDate(0, 0, -day)
		barber := staff[day%3]
		for i, svc := range catalog {
			if (day+i)%2 == 1 {
				continue
			}
			item := commission.LineItem{
				TransactionID:     fmt.Sprintf("trx-%s", date.Format("20060102")),
				TransactionNumber: fmt.Sprintf("INV/%s/%03d", date.Format("20060102"), day+1),
				TransactionDate:   date,
				Kind:              svc.Kind,
				ServiceID:         svc.ID,
				ServiceName:       svc.Name,
				CustomerName:      fmt.Sprintf("Customer %d", day+1),
				EmployeeID:        barber.ID,
				Quantity:          1,
				UnitPrice:         svc.Price,
			}
			created, err := repos.LineItems.Insert(ctx, item)
			if err != nil {
				return nil, fmt.Errorf("seed line item: %w", err)
			}
			ids.LineItemIDs = append(ids.LineItemIDs, created.ID)
		}
	}

	// Attendance from the first of the month up to yesterday
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	for date := monthStart; date.Before(today); date = date.AddDate(0, 0, 1) {
		for i, e := range staff[:3] {
			shift := attendance.ShiftPagi
			if i == 2 {
				shift = attendance.ShiftSiang
			}
			rec := attendance.Record{EmployeeID: e.ID, Date: date, Shift: shift, BranchID: e.BranchID}

			// Andi misses every sixth day
			if i == 1 && date.Day()%6 == 0 {
				rec.Status = attendance.StatusAbsent
			} else {
				late := time.Duration(0)
				if date.Day()%5 == i {
					late = 40 * time.Minute
				}
				in := shift.StartOn(date).Add(late)
				out := in.Add(8*time.Hour + time.Duration(i)*time.Hour)
				rec.CheckIn, rec.CheckOut = &in, &out
				rec.Status = attendance.StatusCheckedOut
			}

			if _, err := repos.Attendance.Insert(ctx, rec); err != nil {
				return nil, fmt.Errorf("seed attendance: %w", err)
			}
		}
	}

	period := payroll.PeriodOf(now)
	points := []payroll.PointEntry{
		{EmployeeID: staff[0].ID, Type: payroll.PointTypeBonus, Amount: idr(250000), Period: period, Reason: strPtr("Top seller of the week")},
		{EmployeeID: staff[1].ID, Type: payroll.PointTypePenalty, Amount: idr(50000), Period: period, Reason: strPtr("Late opening")},
	}
	for _, p := range points {
		if _, err := repos.Points.Insert(ctx, p); err != nil {
			return nil, fmt.Errorf("seed point entry: %w", err)
		}
	}

	return ids, nil
}
