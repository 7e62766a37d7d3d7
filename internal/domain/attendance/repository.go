package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Insert(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, id string, fields UpdateFields) (Record, error)
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	// ListByEmployee returns records with from <= date < to, ordered by date.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]Record, error)
}
