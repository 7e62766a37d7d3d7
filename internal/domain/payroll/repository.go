package payroll

import "context"

// PointRepository stores bonus/penalty entries. Entries are never updated in place.
type PointRepository interface {
	Insert(ctx context.Context, entry PointEntry) (PointEntry, error)
	ListByEmployee(ctx context.Context, employeeID string, period Period) ([]PointEntry, error)
	ListByPeriod(ctx context.Context, period Period) ([]PointEntry, error)
	Delete(ctx context.Context, id string) error
}
