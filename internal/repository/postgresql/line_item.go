package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const lineItemSelect = `
	SELECT li.id, li.transaction_id, li.transaction_number, li.transaction_date, li.kind,
		li.service_id, li.service_name, li.customer_name, li.employee_id, li.quantity, li.unit_price,
		li.commission_status, li.commission_type, li.commission_value, li.commission_amount,
		li.credited_at, li.credited_by, e.name
	FROM line_items li
	LEFT JOIN employees e ON e.id = li.employee_id`

type lineItemRepositoryImpl struct {
	db *database.DB
}

func NewLineItemRepository(db *database.DB) commission.LineItemRepository {
	return &lineItemRepositoryImpl{db: db}
}

func scanLineItem(row pgx.Row) (commission.LineItem, error) {
	var item commission.LineItem
	err := row.Scan(
		&item.ID, &item.TransactionID, &item.TransactionNumber, &item.TransactionDate, &item.Kind,
		&item.ServiceID, &item.ServiceName, &item.CustomerName, &item.EmployeeID, &item.Quantity,
		&item.UnitPrice, &item.CommissionStatus, &item.CommissionType, &item.CommissionValue,
		&item.CommissionAmount, &item.CreditedAt, &item.CreditedBy, &item.EmployeeName,
	)
	return item, err
}

// GetByID implements commission.LineItemRepository.
func (r *lineItemRepositoryImpl) GetByID(ctx context.Context, id string) (commission.LineItem, error) {
	q := GetQuerier(ctx, r.db)

	item, err := scanLineItem(q.QueryRow(ctx, lineItemSelect+` WHERE li.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.LineItem{}, commission.ErrLineItemNotFound
		}
		return commission.LineItem{}, database.WrapStoreError("get line item", err)
	}
	return item, nil
}

// List implements commission.LineItemRepository. Status is not filtered here because it
// depends on classification.
func (r *lineItemRepositoryImpl) List(ctx context.Context, filter commission.LineItemFilter) ([]commission.LineItem, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("li.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Kind != nil && *filter.Kind != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("li.kind = $%d", argIdx))
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("li.transaction_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("li.transaction_date < $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	query := lineItemSelect
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY li.transaction_date DESC, li.id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, database.WrapStoreError("list line items", err)
	}
	defer rows.Close()

	items := make([]commission.LineItem, 0)
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, database.WrapStoreError("scan line item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, database.WrapStoreError("list line items", err)
	}
	return items, nil
}

// Insert implements commission.LineItemRepository. Product items are stored as no_commission
// and unset service items as pending.
func (r *lineItemRepositoryImpl) Insert(ctx context.Context, item commission.LineItem) (commission.LineItem, error) {
	q := GetQuerier(ctx, r.db)

	if item.ID == "" {
		item.ID = uuid.Must(uuid.NewV7()).String()
	}
	if item.CommissionStatus == "" || item.CommissionStatus == commission.StatusUnset {
		if item.Kind == commission.ItemKindProduct {
			item.CommissionStatus = commission.StatusNoCommission
		} else {
			item.CommissionStatus = commission.StatusPending
		}
	}

	query := `
		INSERT INTO line_items (
			id, transaction_id, transaction_number, transaction_date, kind, service_id, service_name,
			customer_name, employee_id, quantity, unit_price, commission_status, commission_type,
			commission_value, commission_amount, credited_at, credited_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := q.Exec(ctx, query,
		item.ID, item.TransactionID, item.TransactionNumber, item.TransactionDate, item.Kind,
		item.ServiceID, item.ServiceName, item.CustomerName, item.EmployeeID, item.Quantity,
		item.UnitPrice, item.CommissionStatus, item.CommissionType, item.CommissionValue,
		item.CommissionAmount, item.CreditedAt, item.CreditedBy,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "line_items_pkey") {
			return commission.LineItem{}, commission.ErrLineItemAlreadyExists
		}
		return commission.LineItem{}, database.WrapStoreError("insert line item", err)
	}
	return r.GetByID(ctx, item.ID)
}

// UpdateCommission implements commission.LineItemRepository.
func (r *lineItemRepositoryImpl) UpdateCommission(ctx context.Context, id string, outcome commission.Outcome) (commission.LineItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE line_items
		SET commission_status = $1, commission_type = $2, commission_value = $3,
			commission_amount = $4, credited_at = $5, credited_by = $6
		WHERE id = $7`

	tag, err := q.Exec(ctx, query, outcome.Status, outcome.Type, outcome.Value, outcome.Amount,
		outcome.CreditedAt, outcome.CreditedBy, id)
	if err != nil {
		return commission.LineItem{}, database.WrapStoreError("update line item commission", err)
	}
	if tag.RowsAffected() == 0 {
		return commission.LineItem{}, commission.ErrLineItemNotFound
	}
	return r.GetByID(ctx, id)
}
