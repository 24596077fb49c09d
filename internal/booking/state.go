package booking

import "time"

// Customer holds the checkout contact fields.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes,omitempty"`
}

// Filters narrow the product browse step and scope availability lookups.
type Filters struct {
	Category string `json:"category,omitempty"`
	Size     string `json:"size,omitempty"`
	Model    string `json:"model,omitempty"`
	MinQty   int    `json:"minQty,omitempty"`
}

// State is one wizard session. It is mutated exclusively through Reduce so
// every transition is replayable.
type State struct {
	Step       Step           `json:"step"`
	LocationID string         `json:"locationId,omitempty"`
	Timing     Timing         `json:"timing,omitempty"`
	DurationID string         `json:"durationId,omitempty"`
	Date       string         `json:"date,omitempty"`
	StartTime  *time.Time     `json:"startTime,omitempty"`
	EndTime    *time.Time     `json:"endTime,omitempty"`
	Basket     map[string]int `json:"basket"`
	Customer   Customer       `json:"customer"`
	Terms      bool           `json:"termsAccepted"`
	BookingRef string         `json:"bookingRef,omitempty"`
	Filters    Filters        `json:"filters"`
}

// NewState returns the initial wizard state.
func NewState() State {
	return State{Step: StepLocation, Basket: map[string]int{}}
}

// Confirmed reports whether the session reached the terminal step.
func (s State) Confirmed() bool {
	return s.Step == StepConfirmed
}

// clone copies the state deeply enough that reducers can write to the copy
// without aliasing the caller's basket.
func (s State) clone() State {
	out := s
	out.Basket = make(map[string]int, len(s.Basket))
	for k, v := range s.Basket {
		out.Basket[k] = v
	}
	return out
}
