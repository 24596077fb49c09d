package booking

import (
	"time"

	"github.com/alpenride/booking-api/internal/availability"
)

// ActionType tags an Action.
type ActionType string

const (
	ActionNext           ActionType = "NEXT"
	ActionPrev           ActionType = "PREV"
	ActionSetStep        ActionType = "SET_STEP"
	ActionSetLocation    ActionType = "SET_LOCATION"
	ActionSetTiming      ActionType = "SET_TIMING"
	ActionSetDuration    ActionType = "SET_DURATION"
	ActionSetDate        ActionType = "SET_DATE"
	ActionSetTime        ActionType = "SET_TIME"
	ActionSetStartTime   ActionType = "SET_START_TIME"
	ActionSetEndTime     ActionType = "SET_END_TIME"
	ActionSetVariantQty  ActionType = "SET_VARIANT_QTY"
	ActionSetCustomer    ActionType = "SET_CUSTOMER_FIELD"
	ActionSetTerms       ActionType = "SET_TERMS"
	ActionSetBookingRef  ActionType = "SET_BOOKING_REF"
	ActionSetCategory    ActionType = "SET_FILTER_CATEGORY"
	ActionSetSize        ActionType = "SET_FILTER_SIZE"
	ActionSetModel       ActionType = "SET_FILTER_MODEL"
	ActionSetMinQty      ActionType = "SET_FILTER_MIN_QTY"
	ActionApplySnapshot  ActionType = "APPLY_SNAPSHOT"
)

// Action is the string-tagged transition input. Only the fields relevant to
// Type are read; the rest stay zero. The shape doubles as the dispatch wire
// format.
type Action struct {
	Type       ActionType            `json:"type"`
	Step       *int                  `json:"step,omitempty"`
	LocationID string                `json:"locationId,omitempty"`
	Timing     Timing                `json:"timing,omitempty"`
	DurationID string                `json:"durationId,omitempty"`
	Date       string                `json:"date,omitempty"`
	Start      *time.Time            `json:"startTime,omitempty"`
	End        *time.Time            `json:"endTime,omitempty"`
	VariantID  string                `json:"variantId,omitempty"`
	Qty        *int                  `json:"qty,omitempty"`
	Field      string                `json:"field,omitempty"`
	Value      string                `json:"value,omitempty"`
	Accepted   *bool                 `json:"accepted,omitempty"`
	Ref        string                `json:"ref,omitempty"`
	Snapshot   availability.Snapshot `json:"snapshot,omitempty"`
}

// Env supplies the inputs a transition may not derive from state alone.
// Passing them in keeps Reduce deterministic for a fixed Env.
type Env struct {
	Now           time.Time
	DurationHours func(id string) (float64, bool)
}

// Reduce applies one action to a state and returns the successor. It never
// mutates its input and unknown or invalid actions return the state unchanged.
// A confirmed session accepts no further transitions.
func Reduce(s State, a Action, env Env) State {
	if s.Confirmed() {
		return s
	}
	next := s.clone()

	switch a.Type {
	case ActionNext:
		seq := Sequence(next.Timing)
		if i := indexIn(seq, next.Step); i >= 0 && i+1 < len(seq) && seq[i+1] != StepConfirmed {
			next.Step = seq[i+1]
		}

	case ActionPrev:
		seq := Sequence(next.Timing)
		if i := indexIn(seq, next.Step); i > 0 {
			next.Step = seq[i-1]
		}

	case ActionSetStep:
		if a.Step == nil {
			return s
		}
		target := Step(*a.Step)
		// Confirmed is reachable only through SET_BOOKING_REF.
		if target == StepConfirmed || indexIn(Sequence(next.Timing), target) < 0 {
			return s
		}
		next.Step = target

	case ActionSetLocation:
		if a.LocationID == next.LocationID {
			return s
		}
		next.LocationID = a.LocationID
		// Stock differs per location; carried-over selections are unsafe.
		next.Basket = map[string]int{}

	case ActionSetTiming:
		if a.Timing != TimingImmediate && a.Timing != TimingReservation {
			return s
		}
		if a.Timing == next.Timing {
			return s
		}
		next.Timing = a.Timing
		// A window picked under the old mode is stale under the new one.
		next.Date = ""
		next.StartTime = nil
		next.EndTime = nil

	case ActionSetDuration:
		next.DurationID = a.DurationID
		if next.Timing == TimingImmediate && env.DurationHours != nil {
			if hours, ok := env.DurationHours(a.DurationID); ok {
				start := env.Now.Truncate(time.Minute)
				end := start.Add(time.Duration(hours * float64(time.Hour)))
				next.StartTime = &start
				next.EndTime = &end
			}
		}

	case ActionSetDate:
		next.Date = a.Date

	case ActionSetTime:
		next.StartTime = copyTime(a.Start)
		next.EndTime = copyTime(a.End)

	case ActionSetStartTime:
		next.StartTime = copyTime(a.Start)

	case ActionSetEndTime:
		next.EndTime = copyTime(a.End)

	case ActionSetVariantQty:
		if a.VariantID == "" || a.Qty == nil {
			return s
		}
		if *a.Qty <= 0 {
			delete(next.Basket, a.VariantID)
		} else {
			next.Basket[a.VariantID] = *a.Qty
		}

	case ActionSetCustomer:
		switch a.Field {
		case "firstName":
			next.Customer.FirstName = a.Value
		case "lastName":
			next.Customer.LastName = a.Value
		case "email":
			next.Customer.Email = a.Value
		case "phone":
			next.Customer.Phone = a.Value
		case "notes":
			next.Customer.Notes = a.Value
		default:
			return s
		}

	case ActionSetTerms:
		if a.Accepted == nil {
			return s
		}
		next.Terms = *a.Accepted

	case ActionSetBookingRef:
		next.BookingRef = a.Ref
		next.Step = StepConfirmed

	case ActionSetCategory:
		next.Filters.Category = a.Value

	case ActionSetSize:
		next.Filters.Size = a.Value

	case ActionSetModel:
		next.Filters.Model = a.Value

	case ActionSetMinQty:
		if a.Qty == nil || *a.Qty < 0 {
			return s
		}
		next.Filters.MinQty = *a.Qty

	case ActionApplySnapshot:
		clamped, _ := availability.Clamp(next.Basket, a.Snapshot)
		next.Basket = clamped

	default:
		return s
	}
	return next
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
