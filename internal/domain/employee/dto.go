package employee

import (
	"strings"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Role          string          `json:"role"`
	BranchID      string          `json:"branch_id"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	MaxAbsentDays *int            `json:"max_absent_days,omitempty"`
	PIN           string          `json:"pin,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be valid"})
	}
	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be 10-13 digits starting with 08, 62 or +62"})
	}
	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "is required"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	} else if !validator.IsWholeAmount(r.BaseSalary) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be a whole amount"})
	}
	if r.MaxAbsentDays != nil && *r.MaxAbsentDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_absent_days", Message: "must be non-negative"})
	}
	if r.PIN != "" && !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be exactly 6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID         string           `json:"-"`
	Name       *string          `json:"name,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	Role       *string          `json:"role,omitempty"`
	BranchID   *string          `json:"branch_id,omitempty"`
	Status     *string          `json:"status,omitempty"`
	BaseSalary *decimal.Decimal `json:"base_salary,omitempty"`
	PIN        *string          `json:"pin,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "cannot be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "must be valid"})
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "must be 10-13 digits starting with 08, 62 or +62"})
	}
	if r.Role != nil && validator.IsEmpty(*r.Role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "cannot be empty"})
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of: active, inactive, on-leave"})
	}
	if r.BaseSalary != nil {
		if r.BaseSalary.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
		} else if !validator.IsWholeAmount(*r.BaseSalary) {
			errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be a whole amount"})
		}
	}
	if r.PIN != nil && !validator.IsValidPIN(*r.PIN) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be exactly 6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	BranchID *string `json:"branch_id,omitempty"`
	Status   *string `json:"status,omitempty"`
	Search   *string `json:"search,omitempty"`
}

// Matches applies the filter to a single employee; adapters without query support use it.
func (f EmployeeFilter) Matches(e Employee) bool {
	if f.BranchID != nil && *f.BranchID != "" && e.BranchID != *f.BranchID {
		return false
	}
	if f.Status != nil && *f.Status != "" && string(e.Status) != *f.Status {
		return false
	}
	if f.Search != nil && *f.Search != "" {
		q := strings.ToLower(*f.Search)
		if !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Email), q) {
			return false
		}
	}
	return true
}

type EmployeeResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	Role              string          `json:"role"`
	BranchID          string          `json:"branch_id,omitempty"`
	Status            string          `json:"status"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	MaxAbsentDays     int             `json:"max_absent_days"`
	CurrentAbsentDays int             `json:"current_absent_days"`
	HasPIN            bool            `json:"has_pin"`
	HiredAt           string          `json:"hired_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		Name:              e.Name,
		Email:             e.Email,
		Phone:             e.Phone,
		Role:              e.Role,
		BranchID:          e.BranchID,
		Status:            string(e.Status),
		BaseSalary:        e.BaseSalary,
		MaxAbsentDays:     e.MaxAbsentDays,
		CurrentAbsentDays: e.CurrentAbsentDays,
		HasPIN:            e.PINHash != nil && *e.PINHash != "",
		HiredAt:           e.HiredAt.Format("2006-01-02"),
	}
}
