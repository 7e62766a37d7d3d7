package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo         employee.EmployeeRepository
	defaultMaxAbsentDays int
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, defaultMaxAbsentDays int) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:         employeeRepo,
		defaultMaxAbsentDays: defaultMaxAbsentDays,
	}
}

func hashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hash), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, employee.NewEmployeeResponse(e))
	}
	return result, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	maxAbsent := s.defaultMaxAbsentDays
	if req.MaxAbsentDays != nil {
		maxAbsent = *req.MaxAbsentDays
	}

	newEmployee := employee.Employee{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         req.Phone,
		Role:          req.Role,
		BranchID:      req.BranchID,
		Status:        employee.StatusActive,
		BaseSalary:    req.BaseSalary,
		MaxAbsentDays: maxAbsent,
	}

	if req.PIN != "" {
		hash, err := hashPIN(req.PIN)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		newEmployee.PINHash = &hash
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created", "employee_id", created.ID, "role", created.Role)
	return employee.NewEmployeeResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	fields := employee.UpdateFields{
		Name:       req.Name,
		Phone:      req.Phone,
		Role:       req.Role,
		BranchID:   req.BranchID,
		BaseSalary: req.BaseSalary,
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		fields.Email = &email
	}
	if req.Status != nil {
		status := employee.Status(*req.Status)
		fields.Status = &status
	}
	if req.PIN != nil {
		hash, err := hashPIN(*req.PIN)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		fields.PINHash = &hash
	}

	if fields.IsEmpty() {
		return employee.EmployeeResponse{}, employee.ErrNothingToUpdate
	}

	updated, err := s.employeeRepo.Update(ctx, req.ID, fields)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, employee.ErrEmailExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return employee.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// VerifyPIN implements employee.EmployeeService.
func (s *EmployeeServiceImpl) VerifyPIN(ctx context.Context, id, pin string) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if emp.PINHash == nil || *emp.PINHash == "" {
		return employee.ErrPINNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PINHash), []byte(pin)); err != nil {
		return employee.ErrInvalidPIN
	}
	return nil
}
