package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]employee.Employee, 0, len(r.store.employees))
	for _, e := range r.store.employees {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	for _, e := range r.store.employees {
		if strings.EqualFold(e.Email, newEmployee.Email) {
			r.store.mu.Unlock()
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	now := r.store.now()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	if newEmployee.HiredAt.IsZero() {
		newEmployee.HiredAt = now
	}
	r.store.employees[newEmployee.ID] = newEmployee
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableEmployees, changefeed.OpInsert, newEmployee.ID)
	return newEmployee, nil
}

func (r *employeeRepository) Update(ctx context.Context, id string, fields employee.UpdateFields) (employee.Employee, error) {
	r.store.mu.Lock()
	e, ok := r.store.employees[id]
	if !ok {
		r.store.mu.Unlock()
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if fields.Email != nil {
		for otherID, other := range r.store.employees {
			if otherID != id && strings.EqualFold(other.Email, *fields.Email) {
				r.store.mu.Unlock()
				return employee.Employee{}, employee.ErrEmailExists
			}
		}
	}

	fields.Apply(&e)
	e.UpdatedAt = r.store.now()
	r.store.employees[id] = e
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableEmployees, changefeed.OpUpdate, id)
	return e, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	if _, ok := r.store.employees[id]; !ok {
		r.store.mu.Unlock()
		return employee.ErrEmployeeNotFound
	}
	delete(r.store.employees, id)
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableEmployees, changefeed.OpDelete, id)
	return nil
}
