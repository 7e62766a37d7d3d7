package commission

import (
	"testing"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceItem(unitPrice int64, qty int) commission.LineItem {
	return commission.LineItem{
		ID:        "item-1",
		Kind:      commission.ItemKindService,
		ServiceID: "svc-haircut",
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(unitPrice),
	}
}

func TestResolve_Percentage(t *testing.T) {
	item := serviceItem(100000, 2)
	rule := commission.Rule{Type: commission.RuleTypePercentage, Value: decimal.NewFromInt(10)}

	amount, err := Resolve(item, rule)

	require.NoError(t, err)
	assert.Equal(t, "20000", amount.String())
}

func TestResolve_PercentageKeepsFraction(t *testing.T) {
	item := serviceItem(35000, 1)
	rule := commission.Rule{Type: commission.RuleTypePercentage, Value: decimal.RequireFromString("12.5")}

	amount, err := Resolve(item, rule)

	require.NoError(t, err)
	assert.Equal(t, "4375", amount.String())
}

func TestResolve_Fixed(t *testing.T) {
	item := serviceItem(100000, 3)
	rule := commission.Rule{Type: commission.RuleTypeFixed, Value: decimal.NewFromInt(15000)}

	amount, err := Resolve(item, rule)

	require.NoError(t, err)
	assert.Equal(t, "45000", amount.String())
}

func TestResolve_RejectsOutOfBounds(t *testing.T) {
	tests := []struct {
		name    string
		rule    commission.Rule
		field   string
		message string
	}{
		{"zero percentage", commission.Rule{Type: commission.RuleTypePercentage, Value: decimal.Zero}, "value", "percentage must be greater than 0"},
		{"negative percentage", commission.Rule{Type: commission.RuleTypePercentage, Value: decimal.NewFromInt(-5)}, "value", "percentage must be greater than 0"},
		{"percentage over 100", commission.Rule{Type: commission.RuleTypePercentage, Value: decimal.RequireFromString("100.01")}, "value", "percentage must not exceed 100"},
		{"zero fixed", commission.Rule{Type: commission.RuleTypeFixed, Value: decimal.Zero}, "value", "fixed amount must be greater than 0"},
		{"unknown type", commission.Rule{Type: "tiered", Value: decimal.NewFromInt(10)}, "type", "must be 'percentage' or 'fixed'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(serviceItem(50000, 1), tt.rule)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Equal(t, tt.message, verrs[0].Message)
		})
	}
}

func TestResolve_PercentageNeverExceedsLineTotal(t *testing.T) {
	for _, pct := range []string{"0.01", "1", "33.33", "50", "99.99", "100"} {
		for _, qty := range []int{1, 2, 7} {
			item := serviceItem(45000, qty)
			rule := commission.Rule{Type: commission.RuleTypePercentage, Value: decimal.RequireFromString(pct)}

			amount, err := Resolve(item, rule)

			require.NoError(t, err)
			assert.True(t, amount.IsPositive(), "pct=%s qty=%d", pct, qty)
			assert.True(t, amount.LessThanOrEqual(item.LineTotal()), "pct=%s qty=%d amount=%s", pct, qty, amount)
		}
	}
}

func TestClassifyWithSource(t *testing.T) {
	amount := decimal.NewFromInt(10000)

	tests := []struct {
		name   string
		item   commission.LineItem
		want   commission.Status
		source commission.StatusSource
	}{
		{
			name:   "stored status wins over derived",
			item:   commission.LineItem{Kind: commission.ItemKindService, CommissionStatus: commission.StatusPending, CommissionAmount: &amount},
			want:   commission.StatusPending,
			source: commission.SourceStored,
		},
		{
			name:   "stored credited",
			item:   commission.LineItem{Kind: commission.ItemKindService, CommissionStatus: commission.StatusCredited, CommissionAmount: &amount},
			want:   commission.StatusCredited,
			source: commission.SourceStored,
		},
		{
			name:   "product derives no_commission",
			item:   commission.LineItem{Kind: commission.ItemKindProduct, CommissionStatus: commission.StatusUnset},
			want:   commission.StatusNoCommission,
			source: commission.SourceDerived,
		},
		{
			name:   "service with amount derives credited",
			item:   commission.LineItem{Kind: commission.ItemKindService, CommissionAmount: &amount},
			want:   commission.StatusCredited,
			source: commission.SourceDerived,
		},
		{
			name:   "service without amount derives pending",
			item:   commission.LineItem{Kind: commission.ItemKindService},
			want:   commission.StatusPending,
			source: commission.SourceDerived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyWithSource(tt.item)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.want, Classify(tt.item))
		})
	}
}

func TestIsEligible(t *testing.T) {
	waived := serviceItem(50000, 1)
	waived.CommissionStatus = commission.StatusNoCommission
	credited := serviceItem(50000, 1)
	credited.CommissionStatus = commission.StatusCredited
	product := serviceItem(30000, 1)
	product.Kind = commission.ItemKindProduct

	assert.True(t, IsEligible(serviceItem(50000, 1)))
	assert.True(t, IsEligible(credited))
	assert.False(t, IsEligible(waived))
	assert.False(t, IsEligible(product))
}

func TestEarnedTotal_OnlyCredited(t *testing.T) {
	a := decimal.NewFromInt(20000)
	b := decimal.NewFromInt(7500)
	items := []commission.LineItem{
		{Kind: commission.ItemKindService, CommissionStatus: commission.StatusCredited, CommissionAmount: &a},
		{Kind: commission.ItemKindService, CommissionStatus: commission.StatusCredited, CommissionAmount: &b},
		{Kind: commission.ItemKindService, CommissionStatus: commission.StatusPending},
		{Kind: commission.ItemKindProduct, CommissionStatus: commission.StatusNoCommission},
	}

	assert.Equal(t, "27500", EarnedTotal(items).String())
	assert.True(t, EarnedTotal(nil).IsZero())
}

func TestResolve_LinearInQuantity(t *testing.T) {
	rules := []commission.Rule{
		{Type: commission.RuleTypeFixed, Value: decimal.NewFromInt(12500)},
		{Type: commission.RuleTypePercentage, Value: decimal.RequireFromString("17.5")},
	}
	for _, rule := range rules {
		one, err := Resolve(serviceItem(65000, 1), rule)
		require.NoError(t, err)
		two, err := Resolve(serviceItem(65000, 2), rule)
		require.NoError(t, err)

		assert.True(t, two.Equal(one.Mul(decimal.NewFromInt(2))), "%s: %s != 2 x %s", rule.Type, two, one)
	}
}
