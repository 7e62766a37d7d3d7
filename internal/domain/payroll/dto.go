package payroll

import (
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AddPointRequest struct {
	EmployeeID  string          `json:"-"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Reason      *string         `json:"reason,omitempty"`
}

func (r *AddPointRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !PointType(r.Type).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'bonus' or 'penalty'"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2000 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2000 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryRequest struct {
	Period   Period
	BranchID *string
	Status   *string
}

type PointResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodMonth int             `json:"period_month"`
	PeriodYear  int             `json:"period_year"`
	Reason      *string         `json:"reason,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type PayslipResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	BranchID     string          `json:"branch_id,omitempty"`
	Period       string          `json:"period"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	Commission   decimal.Decimal `json:"commission"`
	Bonus        decimal.Decimal `json:"bonus"`
	Penalty      decimal.Decimal `json:"penalty"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	GeneratedAt  string          `json:"generated_at"`
}

type SalaryLineResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Role         string          `json:"role"`
	BranchID     string          `json:"branch_id,omitempty"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	Commission   decimal.Decimal `json:"commission"`
	Bonus        decimal.Decimal `json:"bonus"`
	Penalty      decimal.Decimal `json:"penalty"`
	NetSalary    decimal.Decimal `json:"net_salary"`
}

type SummaryResponse struct {
	Period          string               `json:"period"`
	Lines           []SalaryLineResponse `json:"lines"`
	EmployeeCount   int                  `json:"employee_count"`
	TotalBaseSalary decimal.Decimal      `json:"total_base_salary"`
	TotalCommission decimal.Decimal      `json:"total_commission"`
	TotalBonus      decimal.Decimal      `json:"total_bonus"`
	TotalPenalty    decimal.Decimal      `json:"total_penalty"`
	TotalNetPayroll decimal.Decimal      `json:"total_net_payroll"`
}
