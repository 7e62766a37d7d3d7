package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ruleColumns = `id, employee_id, service_id, type, value, created_at, updated_at`

type commissionRuleRepositoryImpl struct {
	db *database.DB
}

func NewCommissionRuleRepository(db *database.DB) commission.RuleRepository {
	return &commissionRuleRepositoryImpl{db: db}
}

func scanRule(row pgx.Row) (commission.Rule, error) {
	var rule commission.Rule
	err := row.Scan(&rule.ID, &rule.EmployeeID, &rule.ServiceID, &rule.Type, &rule.Value,
		&rule.CreatedAt, &rule.UpdatedAt)
	return rule, err
}

// Upsert implements commission.RuleRepository.
func (r *commissionRuleRepositoryImpl) Upsert(ctx context.Context, rule commission.Rule) (commission.Rule, error) {
	q := GetQuerier(ctx, r.db)

	if rule.ID == "" {
		rule.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO commission_rules (id, employee_id, service_id, type, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, service_id)
		DO UPDATE SET type = EXCLUDED.type, value = EXCLUDED.value, updated_at = NOW()
		RETURNING ` + ruleColumns

	saved, err := scanRule(q.QueryRow(ctx, query, rule.ID, rule.EmployeeID, rule.ServiceID, rule.Type, rule.Value))
	if err != nil {
		return commission.Rule{}, database.WrapStoreError("upsert commission rule", err)
	}
	return saved, nil
}

// GetByEmployeeService implements commission.RuleRepository.
func (r *commissionRuleRepositoryImpl) GetByEmployeeService(ctx context.Context, employeeID, serviceID string) (commission.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM commission_rules WHERE employee_id = $1 AND service_id = $2`

	rule, err := scanRule(q.QueryRow(ctx, query, employeeID, serviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Rule{}, commission.ErrRuleNotFound
		}
		return commission.Rule{}, database.WrapStoreError("get commission rule", err)
	}
	return rule, nil
}

// ListByEmployee implements commission.RuleRepository. An empty employeeID lists every rule.
func (r *commissionRuleRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]commission.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ruleColumns + ` FROM commission_rules
		WHERE ($1 = '' OR employee_id = $1)
		ORDER BY employee_id, service_id`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, database.WrapStoreError("list commission rules", err)
	}
	defer rows.Close()

	rules := make([]commission.Rule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, database.WrapStoreError("scan commission rule", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, database.WrapStoreError("list commission rules", err)
	}
	return rules, nil
}

// Delete implements commission.RuleRepository.
func (r *commissionRuleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM commission_rules WHERE id = $1`, id)
	if err != nil {
		return database.WrapStoreError("delete commission rule", err)
	}
	if tag.RowsAffected() == 0 {
		return commission.ErrRuleNotFound
	}
	return nil
}
