package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// Summary computes rate, present/late days, overtime and absence quota over [from, to)
	Summary(ctx context.Context, employeeID string, from, to time.Time) (SummaryResponse, error)

	// UpdateQuota sets the monthly absence allowance; historical tallies are untouched
	UpdateQuota(ctx context.Context, req UpdateQuotaRequest) (QuotaResponse, error)

	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)
	MarkAbsent(ctx context.Context, req MarkAbsentRequest) (RecordResponse, error)
	ListRecords(ctx context.Context, employeeID string, from, to time.Time) ([]RecordResponse, error)

	// RecountAbsences recomputes every employee's absence count for the month containing now
	RecountAbsences(ctx context.Context, now time.Time) (int, error)
}
