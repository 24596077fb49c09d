// Package wizard is the composition root for the booking flow: it loads a
// session, runs the pure reducer over it, derives totals and availability, and
// persists the successor state. All I/O lives here, none in the reducer.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alpenride/booking-api/internal/availability"
	"github.com/alpenride/booking-api/internal/booking"
	"github.com/alpenride/booking-api/internal/catalog"
	"github.com/alpenride/booking-api/internal/common"
	"github.com/alpenride/booking-api/internal/ics"
	"github.com/alpenride/booking-api/internal/obs"
	"github.com/alpenride/booking-api/internal/payment"
	"github.com/alpenride/booking-api/internal/pricing"
	"github.com/alpenride/booking-api/internal/session"
	"github.com/alpenride/booking-api/internal/timegrid"
)

const icsProdID = "-//alpenride//booking-api//EN"

// View is the derived read model handed to clients: the raw state plus the
// active step sequence, totals, and stock status recomputed from it.
type View struct {
	SessionID string             `json:"sessionId"`
	State     booking.State      `json:"state"`
	Sequence  []booking.Step     `json:"sequence"`
	Quote     pricing.Quote      `json:"quote"`
	Stock     availability.State `json:"stock"`
}

// Service orchestrates wizard sessions. All writes flow through the reducer;
// the service only loads, transitions, derives, and saves.
type Service struct {
	bundle   *catalog.Bundle
	idx      pricing.Index
	store    *session.Store
	stock    availability.StockSource
	pay      payment.Provider
	slotStep int
	attempts int
	delay    time.Duration
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	fetchers map[string]*stockEntry
}

// stockEntry pairs a session's fetcher with its last use so idle entries can
// be swept once their session has expired.
type stockEntry struct {
	f        *availability.Fetcher
	lastSeen time.Time
}

// NewService wires the wizard service. slotStep, attempts, delay, and
// sessionTTL fall back to sane defaults when non-positive.
func NewService(bundle *catalog.Bundle, store *session.Store, stock availability.StockSource, pay payment.Provider, slotStep, attempts int, delay, sessionTTL time.Duration) *Service {
	if slotStep <= 0 {
		slotStep = timegrid.DefaultStepMinutes
	}
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Service{
		bundle:   bundle,
		idx:      pricing.BuildIndex(bundle.Overrides),
		store:    store,
		stock:    stock,
		pay:      pay,
		slotStep: slotStep,
		attempts: attempts,
		delay:    delay,
		ttl:      sessionTTL,
		now:      time.Now,
		fetchers: map[string]*stockEntry{},
	}
}

func (s *Service) env() booking.Env {
	return booking.Env{
		Now: s.now(),
		DurationHours: func(id string) (float64, bool) {
			d, ok := s.bundle.DurationByID(id)
			if !ok {
				return 0, false
			}
			return float64(d.TotalHours()), true
		},
	}
}

// fetcher returns the session's fetcher, creating one on first use. Entries
// idle beyond the session TTL belong to sessions Redis has already dropped,
// so they are swept on the way through.
func (s *Service) fetcher(sessionID string) *availability.Fetcher {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.fetchers {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.fetchers, id)
		}
	}
	e, ok := s.fetchers[sessionID]
	if !ok {
		e = &stockEntry{f: availability.NewFetcher(s.stock, s.attempts, s.delay)}
		s.fetchers[sessionID] = e
	}
	e.lastSeen = now
	return e.f
}

// stockState reads the session's fetch state without creating a fetcher.
func (s *Service) stockState(sessionID string) availability.State {
	s.mu.Lock()
	e, ok := s.fetchers[sessionID]
	s.mu.Unlock()
	if !ok {
		return availability.State{Status: availability.StatusIdle}
	}
	return e.f.State()
}

func (s *Service) dropFetcher(sessionID string) {
	s.mu.Lock()
	delete(s.fetchers, sessionID)
	s.mu.Unlock()
}

func (s *Service) view(rec *session.Record) View {
	return View{
		SessionID: rec.ID,
		State:     rec.State,
		Sequence:  booking.Sequence(rec.State.Timing),
		Quote:     pricing.QuoteBasket(rec.State.Basket, s.bundle, rec.State.DurationID, rec.State.LocationID, s.idx),
		Stock:     s.stockState(rec.ID),
	}
}

func (s *Service) load(ctx context.Context, id string) (*session.Record, error) {
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		s.dropFetcher(id)
		return nil, common.NewAppError("SESSION_NOT_FOUND", "session does not exist or has expired", http.StatusNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateSession starts a fresh wizard session.
func (s *Service) CreateSession(ctx context.Context) (View, error) {
	rec, err := s.store.Create(ctx)
	if err != nil {
		return View{}, err
	}
	zerolog.Ctx(ctx).Info().Str("session_id", rec.ID).Msg("session created")
	return s.view(rec), nil
}

// GetSession returns the derived view of a session.
func (s *Service) GetSession(ctx context.Context, id string) (View, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(rec), nil
}

// Dispatch applies one action to a session and persists the successor state.
// Actions the reducer rejects leave the state untouched but still return the
// current view, mirroring the no-op transition.
func (s *Service) Dispatch(ctx context.Context, id string, action booking.Action) (View, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if action.Type == booking.ActionSetBookingRef {
		return View{}, common.NewAppError("INVALID_ACTION", "booking references are assigned on confirmation", http.StatusBadRequest, nil)
	}

	next := booking.Reduce(rec.State, action, s.env())
	rec.State = next
	if err := s.store.Save(ctx, rec); err != nil {
		return View{}, err
	}
	zerolog.Ctx(ctx).Debug().
		Str("session_id", id).
		Str("action", string(action.Type)).
		Str("step", next.Step.String()).
		Msg("action applied")
	return s.view(rec), nil
}

// Slots computes the start-time grid for a date in the session's location and
// duration. Missing prerequisites yield an empty grid, not an error.
func (s *Service) Slots(ctx context.Context, id string, date string) ([]timegrid.Slot, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	loc, ok := s.bundle.LocationByID(rec.State.LocationID)
	if !ok {
		return nil, nil
	}
	dur, ok := s.bundle.DurationByID(rec.State.DurationID)
	if !ok {
		return nil, nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, common.NewAppError("INVALID_DATE", "date must be formatted YYYY-MM-DD", http.StatusBadRequest, err)
	}
	hours, err := locationHours(loc)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return timegrid.Generate(day, hours, time.Duration(dur.TotalHours())*time.Hour, s.slotStep, &now), nil
}

func locationHours(loc catalog.Location) (timegrid.Hours, error) {
	open, err := timegrid.ParseTimeOfDay(loc.OpenTime)
	if err != nil {
		return timegrid.Hours{}, fmt.Errorf("location %s: %w", loc.ID, err)
	}
	closeAt, err := timegrid.ParseTimeOfDay(loc.CloseTime)
	if err != nil {
		return timegrid.Hours{}, fmt.Errorf("location %s: %w", loc.ID, err)
	}
	return timegrid.Hours{Open: open, Close: closeAt}, nil
}

// RefreshStock fetches availability for the session's window and clamps the
// basket against the accepted snapshot. A superseded fetch leaves the session
// untouched. A failed fetch keeps the basket and surfaces the terminal status
// through the view.
func (s *Service) RefreshStock(ctx context.Context, id string) (View, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if rec.State.LocationID == "" || rec.State.StartTime == nil || rec.State.EndTime == nil {
		return View{}, common.NewAppError("WINDOW_NOT_SET", "location and rental window must be chosen before checking stock", http.StatusConflict, nil)
	}

	f := s.fetcher(id)
	snap, err := f.Refresh(ctx, availability.Query{
		VariantIDs: s.bundle.VariantIDsAt(rec.State.LocationID),
		Start:      *rec.State.StartTime,
		End:        *rec.State.EndTime,
	})
	if errors.Is(err, availability.ErrSuperseded) {
		return s.view(rec), nil
	}
	if err != nil {
		return s.view(rec), nil
	}

	rec.State = booking.Reduce(rec.State, booking.Action{Type: booking.ActionApplySnapshot, Snapshot: snap}, s.env())
	rec.StockSeq = f.State().Seq
	if err := s.store.Save(ctx, rec); err != nil {
		return View{}, err
	}
	return s.view(rec), nil
}

// Summary returns aggregate per-product availability for calendar shading.
func (s *Service) Summary(ctx context.Context, id string, start, end time.Time) ([]availability.SummaryRow, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.State.LocationID == "" {
		return nil, common.NewAppError("LOCATION_NOT_SET", "a location must be chosen first", http.StatusConflict, nil)
	}
	return s.fetcher(id).Summary(ctx, availability.SummaryQuery{
		LocationID: rec.State.LocationID,
		Start:      start,
		End:        end,
		Category:   rec.State.Filters.Category,
		Size:       rec.State.Filters.Size,
	})
}

// Confirm runs the checkout guard, submits payment, and moves the session to
// its terminal step. A declined payment keeps the session on checkout so the
// customer can retry.
func (s *Service) Confirm(ctx context.Context, id string) (View, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	log := zerolog.Ctx(ctx)
	if rec.State.Confirmed() {
		return View{}, common.NewAppError("ALREADY_CONFIRMED", "this session is already confirmed", http.StatusConflict, nil)
	}
	if problems := booking.CanConfirm(rec.State); len(problems) > 0 {
		appErr := common.NewAppError("CHECKOUT_BLOCKED", "checkout requirements are not met", http.StatusUnprocessableEntity, nil)
		appErr.Details = problems
		return View{}, appErr
	}

	quote := pricing.QuoteBasket(rec.State.Basket, s.bundle, rec.State.DurationID, rec.State.LocationID, s.idx)
	req := payment.Request{
		SessionID:  rec.ID,
		LocationID: rec.State.LocationID,
		Customer: payment.Contact{
			FirstName: rec.State.Customer.FirstName,
			LastName:  rec.State.Customer.LastName,
			Email:     rec.State.Customer.Email,
			Phone:     rec.State.Customer.Phone,
		},
		TotalCents: quote.Total,
		Start:      rec.State.StartTime,
		End:        rec.State.EndTime,
	}
	for _, line := range quote.Lines {
		req.Items = append(req.Items, payment.Item{
			VariantID: line.VariantID,
			Title:     line.Title,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}

	res, err := s.pay.Submit(ctx, req)
	if err != nil {
		confirmMetric("error")
		return View{}, common.NewAppError("PAYMENT_UNAVAILABLE", "the payment provider could not be reached", http.StatusBadGateway, err)
	}
	if !res.OK {
		confirmMetric("declined")
		log.Warn().Str("session_id", id).Str("reason", res.Message).Msg("payment declined")
		return View{}, common.NewAppError("PAYMENT_DECLINED", res.Message, http.StatusPaymentRequired, nil)
	}

	rec.State = booking.Reduce(rec.State, booking.Action{Type: booking.ActionSetBookingRef, Ref: res.Reference}, s.env())
	if err := s.store.Save(ctx, rec); err != nil {
		return View{}, err
	}
	// The session is terminal; its fetcher has nothing left to guard.
	s.dropFetcher(id)
	confirmMetric("ok")
	log.Info().Str("session_id", id).Str("booking_ref", res.Reference).Msg("booking confirmed")
	return s.view(rec), nil
}

func confirmMetric(result string) {
	if obs.BookingConfirmedTotal != nil {
		obs.BookingConfirmedTotal.WithLabelValues(result).Inc()
	}
}

// CalendarICS renders the confirmed booking as an iCalendar file.
func (s *Service) CalendarICS(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.State.Confirmed() {
		return nil, common.NewAppError("NOT_CONFIRMED", "only confirmed bookings can be exported", http.StatusConflict, nil)
	}
	if rec.State.StartTime == nil || rec.State.EndTime == nil {
		return nil, common.NewAppError("WINDOW_NOT_SET", "the booking has no rental window", http.StatusConflict, nil)
	}

	summary := "Bike rental"
	locName := ""
	if loc, ok := s.bundle.LocationByID(rec.State.LocationID); ok {
		summary = fmt.Sprintf("Bike rental at %s", loc.Name)
		locName = loc.Name
		if loc.Address != "" {
			locName = loc.Name + ", " + loc.Address
		}
	}
	return ics.Calendar(icsProdID, s.now(), ics.Event{
		UID:      fmt.Sprintf("%s@alpenride", rec.State.BookingRef),
		Summary:  summary,
		Location: locName,
		Start:    *rec.State.StartTime,
		End:      *rec.State.EndTime,
	}), nil
}
