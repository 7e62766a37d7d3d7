package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// ListEmployees lists employees matching the filter
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// CreateEmployee registers a new hire with the default absence quota
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee edits profile, salary, status or PIN
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the employee record from the store
	DeleteEmployee(ctx context.Context, id string) error

	// VerifyPIN checks a POS PIN against the stored hash
	VerifyPIN(ctx context.Context, id, pin string) error
}
