// Package memory is an in-process record store. It backs tests and STORE_DRIVER=memory and
// publishes a change notification after every successful mutation, like the database triggers do.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	feed        changefeed.Feed
	now         func() time.Time
	employees   map[string]employee.Employee
	rules       map[string]commission.Rule
	lineItems   map[string]commission.LineItem
	points      map[string]payroll.PointEntry
	attendances map[string]attendance.Record
}

// NewStore creates an empty store. feed may be nil when nobody listens for changes.
func NewStore(feed changefeed.Feed) *Store {
	return &Store{
		feed:        feed,
		now:         time.Now,
		employees:   make(map[string]employee.Employee),
		rules:       make(map[string]commission.Rule),
		lineItems:   make(map[string]commission.LineItem),
		points:      make(map[string]payroll.PointEntry),
		attendances: make(map[string]attendance.Record),
	}
}

// WithinTx runs fn directly. The memory store has no rollback; a failure part way through
// leaves earlier writes in place.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) notify(table, op, id string) {
	if s.feed == nil {
		return
	}
	s.feed.Notify(changefeed.Change{Table: table, Op: op, ID: id})
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
