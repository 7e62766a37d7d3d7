package attendance

import (
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
)

type UpdateQuotaRequest struct {
	EmployeeID    string `json:"-"`
	MaxAbsentDays int    `json:"max_absent_days"`
}

func (r *UpdateQuotaRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.MaxAbsentDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_absent_days", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInRequest struct {
	EmployeeID string     `json:"-"`
	Shift      string     `json:"shift"`
	BranchID   string     `json:"branch_id"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	At         *time.Time `json:"at,omitempty"`
}

// Validate checks the request as received at now.
func (r *CheckInRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !Shift(r.Shift).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "must be one of: pagi, siang, malam"})
	}
	if r.At != nil && r.At.After(now) {
		errs = append(errs, validator.ValidationError{Field: "at", Message: "must not be in the future"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string     `json:"-"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	At         *time.Time `json:"at,omitempty"`
}

// Validate checks the request as received at now.
func (r *CheckOutRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.At != nil && r.At.After(now) {
		errs = append(errs, validator.ValidationError{Field: "at", Message: "must not be in the future"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkAbsentRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
	Shift      string `json:"shift"`
	BranchID   string `json:"branch_id"`
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !Shift(r.Shift).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "must be one of: pagi, siang, malam"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type QuotaResponse struct {
	EmployeeID        string `json:"employee_id"`
	MaxAbsentDays     int    `json:"max_absent_days"`
	CurrentAbsentDays int    `json:"current_absent_days"`
	RemainingDays     int    `json:"remaining_days"`
	DisplayRemaining  int    `json:"display_remaining_days"`
	ExcessDays        int    `json:"excess_days"`
	Status            string `json:"status"`
}

func NewQuotaResponse(employeeID string, q Quota) QuotaResponse {
	return QuotaResponse{
		EmployeeID:        employeeID,
		MaxAbsentDays:     q.MaxAbsentDays,
		CurrentAbsentDays: q.CurrentAbsentDays,
		RemainingDays:     q.RemainingDays,
		DisplayRemaining:  q.DisplayRemaining(),
		ExcessDays:        q.ExcessDays,
		Status:            string(q.Status),
	}
}

type SummaryResponse struct {
	EmployeeID     string        `json:"employee_id"`
	From           string        `json:"from"`
	To             string        `json:"to"`
	WorkDays       int           `json:"work_days"`
	PresentDays    int           `json:"present_days"`
	LateDays       int           `json:"late_days"`
	AbsentDays     int           `json:"absent_days"`
	OvertimeHours  float64       `json:"overtime_hours"`
	AttendanceRate int           `json:"attendance_rate"`
	Quota          QuotaResponse `json:"quota"`
}

type RecordResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	Date             string  `json:"date"`
	CheckIn          *string `json:"check_in,omitempty"`
	CheckOut         *string `json:"check_out,omitempty"`
	CheckInPhotoURL  *string `json:"check_in_photo_url,omitempty"`
	CheckOutPhotoURL *string `json:"check_out_photo_url,omitempty"`
	Status           string  `json:"status"`
	Shift            string  `json:"shift"`
	BranchID         string  `json:"branch_id,omitempty"`
	DayClass         string  `json:"day_class"`
}
