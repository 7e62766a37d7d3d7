package commission

import "context"

type RuleRepository interface {
	// Upsert inserts or updates the rule keyed on (employee_id, service_id).
	Upsert(ctx context.Context, rule Rule) (Rule, error)
	GetByEmployeeService(ctx context.Context, employeeID, serviceID string) (Rule, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Rule, error)
	Delete(ctx context.Context, id string) error
}

type LineItemRepository interface {
	GetByID(ctx context.Context, id string) (LineItem, error)
	List(ctx context.Context, filter LineItemFilter) ([]LineItem, error)
	Insert(ctx context.Context, item LineItem) (LineItem, error)
	UpdateCommission(ctx context.Context, id string, outcome Outcome) (LineItem, error)
}
