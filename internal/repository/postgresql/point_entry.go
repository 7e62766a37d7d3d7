package postgresql

import (
	"context"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pointColumns = `id, employee_id, type, amount, period_year, period_month, reason, created_by, created_at`

type pointEntryRepositoryImpl struct {
	db *database.DB
}

func NewPointEntryRepository(db *database.DB) payroll.PointRepository {
	return &pointEntryRepositoryImpl{db: db}
}

func scanPointEntry(row pgx.Row) (payroll.PointEntry, error) {
	var entry payroll.PointEntry
	err := row.Scan(&entry.ID, &entry.EmployeeID, &entry.Type, &entry.Amount,
		&entry.Period.Year, &entry.Period.Month, &entry.Reason, &entry.CreatedBy, &entry.CreatedAt)
	return entry, err
}

// Insert implements payroll.PointRepository.
func (r *pointEntryRepositoryImpl) Insert(ctx context.Context, entry payroll.PointEntry) (payroll.PointEntry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO point_entries (id, employee_id, type, amount, period_year, period_month, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + pointColumns

	created, err := scanPointEntry(q.QueryRow(ctx, query, entry.ID, entry.EmployeeID, entry.Type,
		entry.Amount, entry.Period.Year, entry.Period.Month, entry.Reason, entry.CreatedBy))
	if err != nil {
		return payroll.PointEntry{}, database.WrapStoreError("insert point entry", err)
	}
	return created, nil
}

// ListByEmployee implements payroll.PointRepository.
func (r *pointEntryRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, period payroll.Period) ([]payroll.PointEntry, error) {
	query := `
		SELECT ` + pointColumns + ` FROM point_entries
		WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
		ORDER BY created_at, id`
	return r.list(ctx, query, employeeID, period.Year, period.Month)
}

// ListByPeriod implements payroll.PointRepository.
func (r *pointEntryRepositoryImpl) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.PointEntry, error) {
	query := `
		SELECT ` + pointColumns + ` FROM point_entries
		WHERE period_year = $1 AND period_month = $2
		ORDER BY created_at, id`
	return r.list(ctx, query, period.Year, period.Month)
}

func (r *pointEntryRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]payroll.PointEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, database.WrapStoreError("list point entries", err)
	}
	defer rows.Close()

	entries := make([]payroll.PointEntry, 0)
	for rows.Next() {
		entry, err := scanPointEntry(rows)
		if err != nil {
			return nil, database.WrapStoreError("scan point entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, database.WrapStoreError("list point entries", err)
	}
	return entries, nil
}

// Delete implements payroll.PointRepository.
func (r *pointEntryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM point_entries WHERE id = $1`, id)
	if err != nil {
		return database.WrapStoreError("delete point entry", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPointNotFound
	}
	return nil
}
