package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

type RuleType string

const (
	RuleTypePercentage RuleType = "percentage"
	RuleTypeFixed      RuleType = "fixed"
)

func (t RuleType) IsValid() bool {
	return t == RuleTypePercentage || t == RuleTypeFixed
}

// Rule is the commission policy for one (employee, service) pair. The pair is unique.
type Rule struct {
	ID         string
	EmployeeID string
	ServiceID  string
	Type       RuleType
	Value      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ItemKind string

const (
	ItemKindService ItemKind = "service"
	ItemKindProduct ItemKind = "product"
)

type Status string

const (
	StatusUnset        Status = "unset"
	StatusPending      Status = "pending"
	StatusCredited     Status = "credited"
	StatusNoCommission Status = "no_commission"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUnset, StatusPending, StatusCredited, StatusNoCommission:
		return true
	}
	return false
}

// LineItem is one sold service or product on a POS transaction.
type LineItem struct {
	ID                string
	TransactionID     string
	TransactionNumber string
	TransactionDate   time.Time
	Kind              ItemKind
	ServiceID         string
	ServiceName       string
	CustomerName      string
	EmployeeID        string
	Quantity          int
	UnitPrice         decimal.Decimal

	// Stored commission outcome. StatusUnset means nothing has been written yet.
	CommissionStatus Status
	CommissionType   *RuleType
	CommissionValue  *decimal.Decimal
	CommissionAmount *decimal.Decimal
	CreditedAt       *time.Time
	CreditedBy       *string

	// Joined fields
	EmployeeName *string
}

func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Outcome is the commission snapshot written onto a line item.
type Outcome struct {
	Status     Status
	Type       *RuleType
	Value      *decimal.Decimal
	Amount     *decimal.Decimal
	CreditedAt *time.Time
	CreditedBy *string
}

// StatusSource tells whether a resolved status came from the record or was computed.
type StatusSource string

const (
	SourceStored  StatusSource = "stored"
	SourceDerived StatusSource = "derived"
)

// Resolution is a status tagged with where it came from.
type Resolution struct {
	Status Status
	Source StatusSource
}

func Stored(s Status) Resolution  { return Resolution{Status: s, Source: SourceStored} }
func Derived(s Status) Resolution { return Resolution{Status: s, Source: SourceDerived} }
