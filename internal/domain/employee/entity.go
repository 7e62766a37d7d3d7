package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMaxAbsentDays is the monthly absence quota given to new hires.
const DefaultMaxAbsentDays = 4

type Employee struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	Role              string
	BranchID          string
	Status            Status
	BaseSalary        decimal.Decimal
	MaxAbsentDays     int
	CurrentAbsentDays int
	PINHash           *string
	HiredAt           time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on-leave"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

// UpdateFields is a partial update; nil fields are left untouched.
type UpdateFields struct {
	Name              *string
	Email             *string
	Phone             *string
	Role              *string
	BranchID          *string
	Status            *Status
	BaseSalary        *decimal.Decimal
	MaxAbsentDays     *int
	CurrentAbsentDays *int
	PINHash           *string
}

func (f UpdateFields) IsEmpty() bool {
	return f.Name == nil && f.Email == nil && f.Phone == nil && f.Role == nil &&
		f.BranchID == nil && f.Status == nil && f.BaseSalary == nil &&
		f.MaxAbsentDays == nil && f.CurrentAbsentDays == nil && f.PINHash == nil
}

// Apply copies the set fields onto e.
func (f UpdateFields) Apply(e *Employee) {
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Email != nil {
		e.Email = *f.Email
	}
	if f.Phone != nil {
		e.Phone = *f.Phone
	}
	if f.Role != nil {
		e.Role = *f.Role
	}
	if f.BranchID != nil {
		e.BranchID = *f.BranchID
	}
	if f.Status != nil {
		e.Status = *f.Status
	}
	if f.BaseSalary != nil {
		e.BaseSalary = *f.BaseSalary
	}
	if f.MaxAbsentDays != nil {
		e.MaxAbsentDays = *f.MaxAbsentDays
	}
	if f.CurrentAbsentDays != nil {
		e.CurrentAbsentDays = *f.CurrentAbsentDays
	}
	if f.PINHash != nil {
		e.PINHash = f.PINHash
	}
}
