package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, name, email, phone, role, branch_id, status, base_salary,
	max_absent_days, current_absent_days, pin_hash, hired_at, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.Role, &emp.BranchID, &emp.Status,
		&emp.BaseSalary, &emp.MaxAbsentDays, &emp.CurrentAbsentDays, &emp.PINHash,
		&emp.HiredAt, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.WrapStoreError("get employee", err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.BranchID != nil && *filter.BranchID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("branch_id = $%d", argIdx))
		args = append(args, *filter.BranchID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, database.WrapStoreError("list employees", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, database.WrapStoreError("scan employee", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, database.WrapStoreError("list employees", err)
	}

	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.Must(uuid.NewV7()).String()
	}
	if newEmployee.HiredAt.IsZero() {
		newEmployee.HiredAt = time.Now()
	}

	query := `
		INSERT INTO employees (
			id, name, email, phone, role, branch_id, status, base_salary,
			max_absent_days, current_absent_days, pin_hash, hired_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Email, newEmployee.Phone, newEmployee.Role,
		newEmployee.BranchID, newEmployee.Status, newEmployee.BaseSalary,
		newEmployee.MaxAbsentDays, newEmployee.CurrentAbsentDays, newEmployee.PINHash, newEmployee.HiredAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_employees_email") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, database.WrapStoreError("create employee", err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id string, fields employee.UpdateFields) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	var setClauses []string
	var args []interface{}
	argIdx := 1

	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.Name != nil {
		set("name", *fields.Name)
	}
	if fields.Email != nil {
		set("email", *fields.Email)
	}
	if fields.Phone != nil {
		set("phone", *fields.Phone)
	}
	if fields.Role != nil {
		set("role", *fields.Role)
	}
	if fields.BranchID != nil {
		set("branch_id", *fields.BranchID)
	}
	if fields.Status != nil {
		set("status", *fields.Status)
	}
	if fields.BaseSalary != nil {
		set("base_salary", *fields.BaseSalary)
	}
	if fields.MaxAbsentDays != nil {
		set("max_absent_days", *fields.MaxAbsentDays)
	}
	if fields.CurrentAbsentDays != nil {
		set("current_absent_days", *fields.CurrentAbsentDays)
	}
	if fields.PINHash != nil {
		set("pin_hash", *fields.PINHash)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE employees SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, employeeColumns)
	args = append(args, id)

	updated, err := scanEmployee(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if database.IsUniqueViolation(err, "uk_employees_email") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, database.WrapStoreError("update employee", err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return database.WrapStoreError("delete employee", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
