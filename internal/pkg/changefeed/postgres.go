package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// DefaultChannel is the NOTIFY channel written by the table_change_notify() trigger.
const DefaultChannel = "table_changes"

// PGListener relays PostgreSQL NOTIFY payloads into a Feed.
type PGListener struct {
	db      *database.DB
	feed    Feed
	channel string
}

func NewPGListener(db *database.DB, feed Feed, channel string) *PGListener {
	if channel == "" {
		channel = DefaultChannel
	}
	return &PGListener{db: db, feed: feed, channel: channel}
}

// Run holds one pooled connection in LISTEN mode until ctx is cancelled.
func (l *PGListener) Run(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return database.WrapStoreError("acquire listen connection", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return database.WrapStoreError("listen "+l.channel, err)
	}
	slog.Info("Change feed listening", "channel", l.channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return database.WrapStoreError("wait for notification", err)
		}

		change, err := ParsePayload(n.Payload)
		if err != nil {
			slog.Warn("Change feed: ignoring malformed payload", "payload", n.Payload, "error", err)
			continue
		}
		l.feed.Notify(change)
	}
}

// RunWithRetry restarts Run after a fixed backoff until ctx is cancelled.
func (l *PGListener) RunWithRetry(ctx context.Context, backoff time.Duration) {
	for {
		err := l.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		slog.Error("Change feed listener stopped, retrying", "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

// ParsePayload decodes a trigger payload of the form {"table":"...","op":"...","id":"..."}.
func ParsePayload(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, fmt.Errorf("decode change payload: %w", err)
	}
	if change.Table == "" {
		return Change{}, errors.New("change payload has no table")
	}
	switch change.Op {
	case "INSERT", OpInsert:
		change.Op = OpInsert
	case "UPDATE", OpUpdate:
		change.Op = OpUpdate
	case "DELETE", OpDelete:
		change.Op = OpDelete
	default:
		return Change{}, fmt.Errorf("unknown change op %q", change.Op)
	}
	return change, nil
}
