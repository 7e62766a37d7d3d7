package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
)

type ruleRepository struct {
	store *Store
}

func NewRuleRepository(store *Store) commission.RuleRepository {
	return &ruleRepository{store: store}
}

func (r *ruleRepository) Upsert(ctx context.Context, rule commission.Rule) (commission.Rule, error) {
	r.store.mu.Lock()
	now := r.store.now()
	op := changefeed.OpInsert

	for id, existing := range r.store.rules {
		if existing.EmployeeID == rule.EmployeeID && existing.ServiceID == rule.ServiceID {
			rule.ID = id
			rule.CreatedAt = existing.CreatedAt
			op = changefeed.OpUpdate
			break
		}
	}
	if rule.ID == "" {
		rule.ID = newID()
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	r.store.rules[rule.ID] = rule
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableCommissionRules, op, rule.ID)
	return rule, nil
}

func (r *ruleRepository) GetByEmployeeService(ctx context.Context, employeeID, serviceID string) (commission.Rule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rule := range r.store.rules {
		if rule.EmployeeID == employeeID && rule.ServiceID == serviceID {
			return rule, nil
		}
	}
	return commission.Rule{}, commission.ErrRuleNotFound
}

func (r *ruleRepository) ListByEmployee(ctx context.Context, employeeID string) ([]commission.Rule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []commission.Rule
	for _, rule := range r.store.rules {
		if employeeID == "" || rule.EmployeeID == employeeID {
			result = append(result, rule)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeID != result[j].EmployeeID {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].ServiceID < result[j].ServiceID
	})
	return result, nil
}

func (r *ruleRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	if _, ok := r.store.rules[id]; !ok {
		r.store.mu.Unlock()
		return commission.ErrRuleNotFound
	}
	delete(r.store.rules, id)
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableCommissionRules, changefeed.OpDelete, id)
	return nil
}

type lineItemRepository struct {
	store *Store
}

func NewLineItemRepository(store *Store) commission.LineItemRepository {
	return &lineItemRepository{store: store}
}

// withEmployeeName fills the joined employee name. Caller holds the read lock.
func (r *lineItemRepository) withEmployeeName(item commission.LineItem) commission.LineItem {
	if e, ok := r.store.employees[item.EmployeeID]; ok {
		name := e.Name
		item.EmployeeName = &name
	}
	return item
}

func (r *lineItemRepository) GetByID(ctx context.Context, id string) (commission.LineItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.lineItems[id]
	if !ok {
		return commission.LineItem{}, commission.ErrLineItemNotFound
	}
	return r.withEmployeeName(item), nil
}

func (r *lineItemRepository) List(ctx context.Context, filter commission.LineItemFilter) ([]commission.LineItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]commission.LineItem, 0)
	for _, item := range r.store.lineItems {
		if filter.Matches(item) {
			result = append(result, r.withEmployeeName(item))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TransactionDate.Equal(result[j].TransactionDate) {
			return result[i].TransactionDate.After(result[j].TransactionDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *lineItemRepository) Insert(ctx context.Context, item commission.LineItem) (commission.LineItem, error) {
	r.store.mu.Lock()
	if item.ID == "" {
		item.ID = newID()
	}
	if _, exists := r.store.lineItems[item.ID]; exists {
		r.store.mu.Unlock()
		return commission.LineItem{}, commission.ErrLineItemAlreadyExists
	}
	if item.CommissionStatus == "" || item.CommissionStatus == commission.StatusUnset {
		if item.Kind == commission.ItemKindProduct {
			item.CommissionStatus = commission.StatusNoCommission
		} else {
			item.CommissionStatus = commission.StatusPending
		}
	}
	item.EmployeeName = nil
	r.store.lineItems[item.ID] = item
	item = r.withEmployeeName(item)
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableLineItems, changefeed.OpInsert, item.ID)
	return item, nil
}

func (r *lineItemRepository) UpdateCommission(ctx context.Context, id string, outcome commission.Outcome) (commission.LineItem, error) {
	r.store.mu.Lock()
	item, ok := r.store.lineItems[id]
	if !ok {
		r.store.mu.Unlock()
		return commission.LineItem{}, commission.ErrLineItemNotFound
	}

	item.CommissionStatus = outcome.Status
	item.CommissionType = outcome.Type
	item.CommissionValue = outcome.Value
	item.CommissionAmount = outcome.Amount
	item.CreditedAt = outcome.CreditedAt
	item.CreditedBy = outcome.CreditedBy
	r.store.lineItems[id] = item
	item = r.withEmployeeName(item)
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableLineItems, changefeed.OpUpdate, id)
	return item, nil
}
