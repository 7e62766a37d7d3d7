package dashboard

import "context"

type DashboardService interface {
	// Overview fetches the employee set and every per-employee aggregate, then joins them
	Overview(ctx context.Context, req OverviewRequest) (*OverviewResponse, error)
}
