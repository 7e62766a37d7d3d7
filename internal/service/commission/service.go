package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type CommissionServiceImpl struct {
	tx       database.Transactor
	itemRepo commission.LineItemRepository
	ruleRepo commission.RuleRepository
	now      func() time.Time
}

func NewCommissionService(
	tx database.Transactor,
	itemRepo commission.LineItemRepository,
	ruleRepo commission.RuleRepository,
) commission.CommissionService {
	return &CommissionServiceImpl{
		tx:       tx,
		itemRepo: itemRepo,
		ruleRepo: ruleRepo,
		now:      time.Now,
	}
}

// Helper to get the acting user from JWT context; nil when the call is not authenticated
func actorFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

func (s *CommissionServiceImpl) SetCommission(ctx context.Context, req commission.SetCommissionRequest) (commission.LineItemResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.LineItemResponse{}, err
	}

	rule := commission.Rule{Type: commission.RuleType(req.Type), Value: req.Value}

	var credited commission.LineItem
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		credited, err = s.credit(txCtx, req.LineItemID, rule, true)
		return err
	})
	if err != nil {
		return commission.LineItemResponse{}, err
	}

	return toLineItemResponse(credited), nil
}

func (s *CommissionServiceImpl) ApplyBatch(ctx context.Context, req commission.BatchCommissionRequest) (commission.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return commission.BatchResult{}, err
	}

	rule := commission.Rule{Type: commission.RuleType(req.Type), Value: req.Value}
	result := commission.BatchResult{
		Credited: []commission.LineItemResponse{},
		Skipped:  []string{},
	}
	var failures []commission.ItemFailure

	seen := make(map[string]bool, len(req.LineItemIDs))
	for _, id := range req.LineItemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		var credited commission.LineItem
		err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
			var err error
			credited, err = s.credit(txCtx, id, rule, false)
			return err
		})
		switch {
		case err == nil:
			result.Credited = append(result.Credited, toLineItemResponse(credited))
		case errors.Is(err, commission.ErrCommissionIneligible), errors.Is(err, commission.ErrAlreadyCredited):
			result.Skipped = append(result.Skipped, id)
		default:
			slog.Warn("Commission batch item failed", "line_item_id", id, "error", err)
			failures = append(failures, commission.ItemFailure{LineItemID: id, Err: err})
			result.Failed = append(result.Failed, commission.BatchFailure{LineItemID: id, Error: err.Error()})
		}
	}

	switch {
	case len(failures) == 0:
		return result, nil
	case len(result.Credited) == 0:
		errs := make([]error, 0, len(failures))
		for _, f := range failures {
			errs = append(errs, fmt.Errorf("line item %s: %w", f.LineItemID, f.Err))
		}
		return result, fmt.Errorf("commission batch failed: %w", errors.Join(errs...))
	default:
		return result, &commission.PartialBatchFailure{Succeeded: len(result.Credited), Failed: failures}
	}
}

// credit resolves rule against one line item, writes the snapshot onto the item and
// remembers the rule for the item's employee+service pair. A credited snapshot is only
// replaced when recredit is set; otherwise crediting it again under the same rule is a
// no-op and under a different rule is ErrAlreadyCredited.
func (s *CommissionServiceImpl) credit(ctx context.Context, itemID string, rule commission.Rule, recredit bool) (commission.LineItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return commission.LineItem{}, err
	}
	if !IsEligible(item) {
		return commission.LineItem{}, commission.ErrCommissionIneligible
	}
	if !recredit && Classify(item) == commission.StatusCredited {
		if sameRule(item, rule) {
			return item, nil
		}
		return commission.LineItem{}, commission.ErrAlreadyCredited
	}

	rule.EmployeeID = item.EmployeeID
	rule.ServiceID = item.ServiceID

	amount, err := Resolve(item, rule)
	if err != nil {
		return commission.LineItem{}, err
	}

	now := s.now()
	ruleType := rule.Type
	value := rule.Value
	outcome := commission.Outcome{
		Status:     commission.StatusCredited,
		Type:       &ruleType,
		Value:      &value,
		Amount:     &amount,
		CreditedAt: &now,
		CreditedBy: actorFromContext(ctx),
	}

	updated, err := s.itemRepo.UpdateCommission(ctx, item.ID, outcome)
	if err != nil {
		return commission.LineItem{}, fmt.Errorf("failed to credit line item %s: %w", item.ID, err)
	}

	if _, err := s.ruleRepo.Upsert(ctx, rule); err != nil {
		return commission.LineItem{}, fmt.Errorf("failed to save commission rule: %w", err)
	}

	return updated, nil
}

func (s *CommissionServiceImpl) ListLineItems(ctx context.Context, filter commission.LineItemFilter) ([]commission.LineItemResponse, error) {
	items, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]commission.LineItemResponse, 0, len(items))
	for _, item := range FilterByStatus(items, filter.Status) {
		result = append(result, toLineItemResponse(item))
	}
	return result, nil
}

func (s *CommissionServiceImpl) ListRules(ctx context.Context, employeeID string) ([]commission.RuleResponse, error) {
	rules, err := s.ruleRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]commission.RuleResponse, 0, len(rules))
	for _, r := range rules {
		result = append(result, toRuleResponse(r))
	}
	return result, nil
}

func (s *CommissionServiceImpl) GetRule(ctx context.Context, employeeID, serviceID string) (commission.RuleResponse, error) {
	rule, err := s.ruleRepo.GetByEmployeeService(ctx, employeeID, serviceID)
	if err != nil {
		return commission.RuleResponse{}, err
	}
	return toRuleResponse(rule), nil
}

func (s *CommissionServiceImpl) DeleteRule(ctx context.Context, id string) error {
	return s.ruleRepo.Delete(ctx, id)
}

// FilterByStatus keeps the items whose classified status equals status. A nil or empty
// status keeps everything.
func FilterByStatus(items []commission.LineItem, status *string) []commission.LineItem {
	if status == nil || *status == "" {
		return items
	}
	filtered := make([]commission.LineItem, 0, len(items))
	for _, item := range items {
		if string(Classify(item)) == *status {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// ========== HELPERS ==========

func toLineItemResponse(item commission.LineItem) commission.LineItemResponse {
	resolution := ClassifyWithSource(item)

	var ruleType *string
	if item.CommissionType != nil {
		t := string(*item.CommissionType)
		ruleType = &t
	}

	var creditedAt *string
	if item.CreditedAt != nil {
		str := item.CreditedAt.Format(time.RFC3339)
		creditedAt = &str
	}

	employeeName := ""
	if item.EmployeeName != nil {
		employeeName = *item.EmployeeName
	}

	return commission.LineItemResponse{
		ID:                item.ID,
		TransactionNumber: item.TransactionNumber,
		TransactionDate:   item.TransactionDate.Format(time.RFC3339),
		Kind:              string(item.Kind),
		ServiceID:         item.ServiceID,
		ServiceName:       item.ServiceName,
		CustomerName:      item.CustomerName,
		EmployeeID:        item.EmployeeID,
		EmployeeName:      employeeName,
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		LineTotal:         item.LineTotal(),
		CommissionStatus:  string(resolution.Status),
		StatusSource:      string(resolution.Source),
		CommissionType:    ruleType,
		CommissionValue:   item.CommissionValue,
		CommissionAmount:  item.CommissionAmount,
		CreditedAt:        creditedAt,
	}
}

func toRuleResponse(r commission.Rule) commission.RuleResponse {
	return commission.RuleResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		Type:       string(r.Type),
		Value:      r.Value,
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}
