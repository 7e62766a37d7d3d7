package commission

import "context"

type CommissionService interface {
	// SetCommission credits a single line item and remembers the rule for its employee+service.
	// It is the only path that may re-credit an item that is already credited.
	SetCommission(ctx context.Context, req SetCommissionRequest) (LineItemResponse, error)

	// ApplyBatch credits every selected pending item with the same rule. Ineligible items and
	// items already credited under a different rule are skipped. Per-item failures are
	// collected into a *PartialBatchFailure; when nothing was credited the failures come back
	// as a plain joined error instead.
	ApplyBatch(ctx context.Context, req BatchCommissionRequest) (BatchResult, error)

	ListLineItems(ctx context.Context, filter LineItemFilter) ([]LineItemResponse, error)
	ListRules(ctx context.Context, employeeID string) ([]RuleResponse, error)
	GetRule(ctx context.Context, employeeID, serviceID string) (RuleResponse, error)
	DeleteRule(ctx context.Context, id string) error
}
