package commission

import (
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateRule checks the bounds of a commission policy: percentage in (0, 100], fixed > 0.
func ValidateRule(ruleType RuleType, value decimal.Decimal) error {
	var errs validator.ValidationErrors

	switch ruleType {
	case RuleTypePercentage:
		if !value.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "percentage must be greater than 0"})
		} else if value.GreaterThan(hundred) {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "percentage must not exceed 100"})
		}
	case RuleTypeFixed:
		if !value.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "value", Message: "fixed amount must be greater than 0"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'percentage' or 'fixed'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetCommissionRequest struct {
	LineItemID string          `json:"-"`
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
}

func (r *SetCommissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LineItemID) {
		errs = append(errs, validator.ValidationError{Field: "line_item_id", Message: "is required"})
	}
	if err := ValidateRule(RuleType(r.Type), r.Value); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchCommissionRequest struct {
	LineItemIDs []string        `json:"line_item_ids"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
}

func (r *BatchCommissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.LineItemIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "line_item_ids", Message: "at least one line item is required"})
	}
	if err := ValidateRule(RuleType(r.Type), r.Value); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchResult struct {
	Credited []LineItemResponse `json:"credited"`
	Skipped  []string           `json:"skipped"`
	Failed   []BatchFailure     `json:"failed,omitempty"`
}

type BatchFailure struct {
	LineItemID string `json:"line_item_id"`
	Error      string `json:"error"`
}

type LineItemFilter struct {
	EmployeeID *string    `json:"employee_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Kind       *string    `json:"kind,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"` // exclusive
}

// Matches applies every field except Status, which depends on classification and is
// evaluated by the service.
func (f LineItemFilter) Matches(item LineItem) bool {
	if f.EmployeeID != nil && *f.EmployeeID != "" && item.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Kind != nil && *f.Kind != "" && string(item.Kind) != *f.Kind {
		return false
	}
	if f.From != nil && item.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !item.TransactionDate.Before(*f.To) {
		return false
	}
	return true
}

type LineItemResponse struct {
	ID                string           `json:"id"`
	TransactionNumber string           `json:"transaction_number"`
	TransactionDate   string           `json:"transaction_date"`
	Kind              string           `json:"kind"`
	ServiceID         string           `json:"service_id"`
	ServiceName       string           `json:"service_name"`
	CustomerName      string           `json:"customer_name,omitempty"`
	EmployeeID        string           `json:"employee_id"`
	EmployeeName      string           `json:"employee_name,omitempty"`
	Quantity          int              `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	LineTotal         decimal.Decimal  `json:"line_total"`
	CommissionStatus  string           `json:"commission_status"`
	StatusSource      string           `json:"commission_status_source"`
	CommissionType    *string          `json:"commission_type,omitempty"`
	CommissionValue   *decimal.Decimal `json:"commission_value,omitempty"`
	CommissionAmount  *decimal.Decimal `json:"commission_amount,omitempty"`
	CreditedAt        *string          `json:"credited_at,omitempty"`
}

type RuleResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	ServiceID  string          `json:"service_id"`
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
	UpdatedAt  string          `json:"updated_at"`
}
