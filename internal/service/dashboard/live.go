package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
)

type LiveConfig struct {
	Debounce time.Duration
	// MaxWait bounds how long a steady stream of changes can postpone a refresh. Zero means
	// defaultMaxWaitFactor times Debounce.
	MaxWait      time.Duration
	RetryBackoff time.Duration
	MaxRetries   int
}

const defaultMaxWaitFactor = 10

func (c LiveConfig) maxWait() time.Duration {
	if c.MaxWait > 0 {
		return c.MaxWait
	}
	return defaultMaxWaitFactor * c.Debounce
}

// Live keeps a dashboard overview current by re-fetching it whenever the store reports a
// change. Bursts of changes are debounced into one refresh, and a burst that never pauses
// still refreshes once MaxWait has passed since its first change. Every refresh takes a sequence
// number and a result is only published when no newer refresh has published already.
type Live struct {
	service dashboard.DashboardService
	feed    changefeed.Feed
	req     dashboard.OverviewRequest
	cfg     LiveConfig
	publish func(*dashboard.OverviewResponse)

	seq     atomic.Uint64
	trigger chan struct{}

	mu        sync.RWMutex
	published uint64
	latest    *dashboard.OverviewResponse
}

// NewLive creates a Live refresher. publish may be nil; it is called with every accepted
// overview while the internal lock is held, so it must not block.
func NewLive(
	service dashboard.DashboardService,
	feed changefeed.Feed,
	req dashboard.OverviewRequest,
	cfg LiveConfig,
	publish func(*dashboard.OverviewResponse),
) *Live {
	return &Live{
		service: service,
		feed:    feed,
		req:     req,
		cfg:     cfg,
		publish: publish,
		trigger: make(chan struct{}, 1),
	}
}

// Latest returns the most recent accepted overview, or nil before the first one.
func (l *Live) Latest() *dashboard.OverviewResponse {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latest
}

// Trigger schedules a refresh. It never blocks.
func (l *Live) Trigger() {
	select {
	case l.trigger <- struct{}{}:
	default:
	}
}

// Run subscribes to every dashboard table and refreshes until ctx is done.
func (l *Live) Run(ctx context.Context) error {
	cancel := changefeed.SubscribeAll(l.feed, changefeed.Tables, func(c changefeed.Change) {
		slog.Debug("Dashboard change received", "table", c.Table, "op", c.Op, "id", c.ID)
		l.Trigger()
	})
	defer cancel()

	var wg sync.WaitGroup
	defer wg.Wait()

	timer := time.NewTimer(0)
	defer timer.Stop()

	// first change of the burst not yet refreshed; zero when nothing is pending
	var pendingSince time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.trigger:
			now := time.Now()
			if pendingSince.IsZero() {
				pendingSince = now
			}
			wait := l.cfg.Debounce
			if left := l.cfg.maxWait() - now.Sub(pendingSince); left < wait {
				wait = max(left, 0)
			}
			timer.Reset(wait)
		case <-timer.C:
			pendingSince = time.Time{}
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Refresh(ctx)
			}()
		}
	}
}

// Refresh loads one overview, retrying failed loads with a fixed backoff. It reports whether
// the result was published.
func (l *Live) Refresh(ctx context.Context) bool {
	seq := l.seq.Add(1)

	var resp *dashboard.OverviewResponse
	for attempt := 0; ; attempt++ {
		var err error
		resp, err = l.service.Overview(ctx, l.req)
		if err == nil {
			break
		}
		if attempt >= l.cfg.MaxRetries {
			slog.Error("Dashboard refresh failed", "sequence", seq, "attempts", attempt+1, "error", err)
			return false
		}
		slog.Warn("Dashboard refresh failed, retrying", "sequence", seq, "attempt", attempt+1, "backoff", l.cfg.RetryBackoff, "error", err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(l.cfg.RetryBackoff):
		}
		if l.seq.Load() != seq {
			// a newer refresh is in flight
			return false
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.published {
		slog.Debug("Dropping superseded dashboard refresh", "sequence", seq, "published", l.published)
		return false
	}
	l.published = seq
	resp.Sequence = seq
	l.latest = resp
	if l.publish != nil {
		l.publish(resp)
	}
	return true
}
