package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
)

type pointRepository struct {
	store *Store
}

func NewPointRepository(store *Store) payroll.PointRepository {
	return &pointRepository{store: store}
}

func (r *pointRepository) Insert(ctx context.Context, entry payroll.PointEntry) (payroll.PointEntry, error) {
	r.store.mu.Lock()
	if entry.ID == "" {
		entry.ID = newID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.store.now()
	}
	r.store.points[entry.ID] = entry
	r.store.mu.Unlock()

	r.store.notify(changefeed.TablePointEntries, changefeed.OpInsert, entry.ID)
	return entry, nil
}

func (r *pointRepository) ListByEmployee(ctx context.Context, employeeID string, period payroll.Period) ([]payroll.PointEntry, error) {
	return r.list(func(e payroll.PointEntry) bool {
		return e.EmployeeID == employeeID && e.Period == period
	}), nil
}

func (r *pointRepository) ListByPeriod(ctx context.Context, period payroll.Period) ([]payroll.PointEntry, error) {
	return r.list(func(e payroll.PointEntry) bool {
		return e.Period == period
	}), nil
}

func (r *pointRepository) list(keep func(payroll.PointEntry) bool) []payroll.PointEntry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]payroll.PointEntry, 0)
	for _, e := range r.store.points {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *pointRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	if _, ok := r.store.points[id]; !ok {
		r.store.mu.Unlock()
		return payroll.ErrPointNotFound
	}
	delete(r.store.points, id)
	r.store.mu.Unlock()

	r.store.notify(changefeed.TablePointEntries, changefeed.OpDelete, id)
	return nil
}
