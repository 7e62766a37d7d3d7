package commission

import (
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Resolve computes the commission earned on item under rule. Amounts are exact; rounding is
// left to presentation.
func Resolve(item commission.LineItem, rule commission.Rule) (decimal.Decimal, error) {
	if err := commission.ValidateRule(rule.Type, rule.Value); err != nil {
		return decimal.Zero, err
	}

	qty := decimal.NewFromInt(int64(item.Quantity))
	switch rule.Type {
	case commission.RuleTypePercentage:
		return item.UnitPrice.Mul(rule.Value).Div(hundred).Mul(qty), nil
	default:
		return rule.Value.Mul(qty), nil
	}
}

// ClassifyWithSource resolves the commission status of item. A status stored on the record
// always wins; otherwise it is derived from the item kind and its credited amount.
func ClassifyWithSource(item commission.LineItem) commission.Resolution {
	if item.CommissionStatus != "" && item.CommissionStatus != commission.StatusUnset {
		return commission.Stored(item.CommissionStatus)
	}

	switch {
	case item.Kind == commission.ItemKindProduct:
		return commission.Derived(commission.StatusNoCommission)
	case item.CommissionAmount != nil:
		return commission.Derived(commission.StatusCredited)
	default:
		return commission.Derived(commission.StatusPending)
	}
}

func Classify(item commission.LineItem) commission.Status {
	return ClassifyWithSource(item).Status
}

// IsEligible reports whether item can earn commission at all. Products never do, and a
// stored no_commission override takes the item out of crediting.
func IsEligible(item commission.LineItem) bool {
	if item.Kind == commission.ItemKindProduct {
		return false
	}
	return Classify(item) != commission.StatusNoCommission
}

// sameRule reports whether item was credited with exactly rule's type and value.
func sameRule(item commission.LineItem, rule commission.Rule) bool {
	if item.CommissionType == nil || item.CommissionValue == nil {
		return false
	}
	return *item.CommissionType == rule.Type && item.CommissionValue.Equal(rule.Value)
}

// EarnedTotal sums the commission of every credited item.
func EarnedTotal(items []commission.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if Classify(item) == commission.StatusCredited && item.CommissionAmount != nil {
			total = total.Add(*item.CommissionAmount)
		}
	}
	return total
}
