// Package changefeed delivers "something changed in table X" notifications from the record
// store to in-process listeners. Payloads are not diffed; listeners are expected to re-fetch.
package changefeed

import (
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/sse"
)

const (
	TableEmployees       = "employees"
	TableCommissionRules = "commission_rules"
	TableLineItems       = "line_items"
	TablePointEntries    = "point_entries"
	TableAttendances     = "attendances"
)

// Tables lists every table the dashboard depends on.
var Tables = []string{
	TableEmployees,
	TableCommissionRules,
	TableLineItems,
	TablePointEntries,
	TableAttendances,
}

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

type Change struct {
	Table string `json:"table"`
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
}

type Feed interface {
	// Subscribe invokes fn for every change on table until cancel is called.
	Subscribe(table string, fn func(Change)) (cancel func())
	Notify(change Change)
}

// HubFeed fans changes out through an sse.Hub, so the same events reach both in-process
// listeners and streaming HTTP clients.
type HubFeed struct {
	hub *sse.Hub
}

func NewHubFeed(hub *sse.Hub) *HubFeed {
	return &HubFeed{hub: hub}
}

func (f *HubFeed) Hub() *sse.Hub {
	return f.hub
}

func (f *HubFeed) Notify(change Change) {
	f.hub.Publish(change.Table, sse.Event{Event: change.Op, Data: change})
}

func (f *HubFeed) Subscribe(table string, fn func(Change)) func() {
	ch, cleanup := f.hub.Subscribe(table)
	go func() {
		for ev := range ch {
			change, ok := ev.Data.(Change)
			if !ok {
				change = Change{Table: table, Op: ev.Event}
			}
			fn(change)
		}
	}()
	return cleanup
}

// SubscribeAll subscribes fn to every table in tables and returns a single cancel.
func SubscribeAll(feed Feed, tables []string, fn func(Change)) func() {
	cancels := make([]func(), 0, len(tables))
	for _, table := range tables {
		cancels = append(cancels, feed.Subscribe(table, fn))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
