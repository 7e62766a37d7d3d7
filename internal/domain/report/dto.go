package report

import (
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
)

// LineItemColumns is the literal header of the commission CSV export.
var LineItemColumns = []string{
	"Transaction Number",
	"Date",
	"Service",
	"Type",
	"Employee",
	"Customer",
	"Quantity",
	"Unit Price",
	"Line Total",
	"Commission Status",
	"Commission Type",
	"Commission Value",
	"Commission Amount",
}

type LineItemExportRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Kind       *string `json:"kind,omitempty"`
	From       *string `json:"from,omitempty"`
	To         *string `json:"to,omitempty"`
}

// Validate parses the optional date bounds; To is inclusive in the request and returned
// as an exclusive bound.
func (r *LineItemExportRequest) Validate() (from, to *time.Time, err error) {
	var errs validator.ValidationErrors

	if r.From != nil && *r.From != "" {
		t, ok := validator.IsValidDate(*r.From)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "must be in YYYY-MM-DD format"})
		} else {
			from = &t
		}
	}
	if r.To != nil && *r.To != "" {
		t, ok := validator.IsValidDate(*r.To)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "must be in YYYY-MM-DD format"})
		} else {
			end := t.AddDate(0, 0, 1)
			to = &end
		}
	}
	if r.Kind != nil && *r.Kind != "" && !validator.IsInSlice(*r.Kind, []string{"service", "product"}) {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be 'service' or 'product'"})
	}
	if r.Status != nil && *r.Status != "" && !validator.IsInSlice(*r.Status, []string{"pending", "credited", "no_commission"}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'pending', 'credited' or 'no_commission'"})
	}
	if from != nil && to != nil && !from.Before(*to) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "must not be before from"})
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return from, to, nil
}
