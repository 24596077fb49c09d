package availability

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alpenride/booking-api/internal/obs"
)

// Status is the lifecycle of the current fetch cycle. Failed is terminal for
// the cycle and distinct from an empty but successful snapshot.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

const (
	// DefaultAttempts bounds retries per fetch cycle.
	DefaultAttempts = 3
	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = 750 * time.Millisecond
)

// ErrSuperseded marks a response that arrived after a newer request was
// issued. The caller should treat it as a silent drop, not a failure.
var ErrSuperseded = errors.New("availability: response superseded by newer request")

// Query selects the stock window for a refresh.
type Query struct {
	VariantIDs []string
	Start      time.Time
	End        time.Time
}

// SummaryQuery selects aggregate availability per product.
type SummaryQuery struct {
	LocationID string
	Start      time.Time
	End        time.Time
	Category   string
	Size       string
}

// StockSource is the upstream inventory contract.
type StockSource interface {
	AvailableStock(ctx context.Context, q Query) ([]Row, error)
	Summary(ctx context.Context, q SummaryQuery) ([]SummaryRow, error)
}

// State is the externally visible fetch state.
type State struct {
	Status   Status   `json:"status"`
	Snapshot Snapshot `json:"snapshot"`
	Seq      uint64   `json:"seq"`
}

// Fetcher serialises stock refreshes for one booking session. Every refresh
// gets a monotonically increasing sequence number; a response is applied only
// when its number still equals the latest issued one, so overlapping refreshes
// can never roll the snapshot backwards.
type Fetcher struct {
	source   StockSource
	attempts int
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	seq      uint64
	status   Status
	snapshot Snapshot
}

// NewFetcher wires a fetcher over the upstream source. Non-positive attempts
// or delay fall back to the defaults.
func NewFetcher(source StockSource, attempts int, delay time.Duration) *Fetcher {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &Fetcher{
		source:   source,
		attempts: attempts,
		delay:    delay,
		sleep:    sleepCtx,
		status:   StatusIdle,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State returns a copy of the current fetch state.
func (f *Fetcher) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(Snapshot, len(f.snapshot))
	for k, v := range f.snapshot {
		snap[k] = v
	}
	return State{Status: f.status, Snapshot: snap, Seq: f.seq}
}

// Refresh issues a new fetch cycle and blocks until it resolves. The returned
// snapshot is the one applied; ErrSuperseded means a newer refresh was issued
// while this one was in flight and its result was dropped. On retry
// exhaustion the status moves to Failed and the previous snapshot is kept.
func (f *Fetcher) Refresh(ctx context.Context, q Query) (Snapshot, error) {
	f.mu.Lock()
	f.seq++
	mySeq := f.seq
	f.status = StatusLoading
	f.mu.Unlock()

	log := zerolog.Ctx(ctx)
	rows, err := f.fetchWithRetry(ctx, q)

	f.mu.Lock()
	defer f.mu.Unlock()
	if mySeq != f.seq {
		if obs.StockStaleDropped != nil {
			obs.StockStaleDropped.Inc()
		}
		log.Debug().Uint64("seq", mySeq).Uint64("latest", f.seq).Msg("stock response dropped as stale")
		return nil, ErrSuperseded
	}
	if err != nil {
		f.status = StatusFailed
		log.Error().Err(err).Uint64("seq", mySeq).Msg("stock refresh exhausted retries")
		return nil, err
	}
	f.snapshot = SnapshotFromRows(rows)
	f.status = StatusReady
	snap := make(Snapshot, len(f.snapshot))
	for k, v := range f.snapshot {
		snap[k] = v
	}
	return snap, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, q Query) ([]Row, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		start := time.Now()
		rows, err := f.source.AvailableStock(ctx, q)
		elapsed := float64(time.Since(start).Milliseconds())
		if err == nil {
			observeFetch("ok", elapsed)
			return rows, nil
		}
		observeFetch("error", elapsed)
		lastErr = err
		if attempt < f.attempts {
			if serr := f.sleep(ctx, f.delay); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, lastErr
}

// Summary proxies the aggregate availability lookup. It shares the retry
// policy but not the sequence guard; callers use it for read-only shading and
// never write basket state from it.
func (f *Fetcher) Summary(ctx context.Context, q SummaryQuery) ([]SummaryRow, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		rows, err := f.source.Summary(ctx, q)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		if attempt < f.attempts {
			if serr := f.sleep(ctx, f.delay); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, lastErr
}

func observeFetch(result string, ms float64) {
	if obs.StockFetchTotal != nil {
		obs.StockFetchTotal.WithLabelValues(result).Inc()
	}
	if obs.StockFetchLatency != nil {
		obs.StockFetchLatency.WithLabelValues(result).Observe(ms)
	}
}
