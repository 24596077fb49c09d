package availability_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/availability"
)

type stubSource struct {
	mu      sync.Mutex
	calls   int
	rows    []availability.Row
	errs    []error
	block   chan struct{}
	summary []availability.SummaryRow
}

func (s *stubSource) AvailableStock(ctx context.Context, q availability.Query) ([]availability.Row, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if call < len(s.errs) && s.errs[call] != nil {
		return nil, s.errs[call]
	}
	return s.rows, nil
}

func (s *stubSource) Summary(ctx context.Context, q availability.SummaryQuery) ([]availability.SummaryRow, error) {
	return s.summary, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRefreshAppliesSnapshot(t *testing.T) {
	src := &stubSource{rows: []availability.Row{{VariantID: "v1", AvailableStock: 4}}}
	f := availability.NewFetcher(src, 3, time.Millisecond)

	snap, err := f.Refresh(context.Background(), availability.Query{VariantIDs: []string{"v1"}})
	require.NoError(t, err)
	require.Equal(t, availability.Snapshot{"v1": 4}, snap)

	st := f.State()
	require.Equal(t, availability.StatusReady, st.Status)
	require.Equal(t, uint64(1), st.Seq)
}

func TestRefreshRetriesThenSucceeds(t *testing.T) {
	src := &stubSource{
		rows: []availability.Row{{VariantID: "v1", AvailableStock: 1}},
		errs: []error{errors.New("boom"), errors.New("boom")},
	}
	f := availability.NewFetcher(src, 3, time.Millisecond)

	snap, err := f.Refresh(context.Background(), availability.Query{})
	require.NoError(t, err)
	require.Equal(t, 1, snap["v1"])
	require.Equal(t, 3, src.callCount())
}

func TestRefreshExhaustedRetriesIsTerminal(t *testing.T) {
	boom := errors.New("boom")
	src := &stubSource{errs: []error{boom, boom, boom}}
	f := availability.NewFetcher(src, 3, time.Millisecond)

	_, err := f.Refresh(context.Background(), availability.Query{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, src.callCount())
	require.Equal(t, availability.StatusFailed, f.State().Status)
}

func TestRefreshDropsStaleResponse(t *testing.T) {
	block := make(chan struct{})
	slow := &stubSource{
		rows:  []availability.Row{{VariantID: "v1", AvailableStock: 9}},
		block: block,
	}
	f := availability.NewFetcher(slow, 1, time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := f.Refresh(context.Background(), availability.Query{})
		done <- err
	}()

	// Let the first refresh reach the source, then issue a newer one.
	time.Sleep(20 * time.Millisecond)
	slow.mu.Lock()
	slow.block = nil
	slow.rows = []availability.Row{{VariantID: "v1", AvailableStock: 2}}
	slow.mu.Unlock()

	snap, err := f.Refresh(context.Background(), availability.Query{})
	require.NoError(t, err)
	require.Equal(t, 2, snap["v1"])

	close(block)
	require.ErrorIs(t, <-done, availability.ErrSuperseded)

	// The newer snapshot survives the late arrival.
	require.Equal(t, availability.Snapshot{"v1": 2}, f.State().Snapshot)
	require.Equal(t, availability.StatusReady, f.State().Status)
}

func TestRefreshHonoursContextDuringBackoff(t *testing.T) {
	boom := errors.New("boom")
	src := &stubSource{errs: []error{boom, boom, boom}}
	f := availability.NewFetcher(src, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := f.Refresh(ctx, availability.Query{})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, src.callCount())
}

func TestSummaryPassesThrough(t *testing.T) {
	src := &stubSource{summary: []availability.SummaryRow{{ProductID: "p1", TotalAvailable: 7}}}
	f := availability.NewFetcher(src, 3, time.Millisecond)

	rows, err := f.Summary(context.Background(), availability.SummaryQuery{LocationID: "salzburg"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 7, rows[0].TotalAvailable)
}
