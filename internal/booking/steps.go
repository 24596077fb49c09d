// Package booking owns the wizard state machine: step sequencing, the action
// reducer, and the checkout guard. It is pure; all I/O lives in the wizard
// package that drives it.
package booking

// Step is a wizard position. Confirmed is terminal.
type Step int

const (
	StepLocation Step = iota
	StepTiming
	StepDuration
	StepDate
	StepTime
	StepProducts
	StepCheckout
	StepConfirmed
)

var stepNames = map[Step]string{
	StepLocation:  "location",
	StepTiming:    "timing",
	StepDuration:  "duration",
	StepDate:      "date",
	StepTime:      "time",
	StepProducts:  "products",
	StepCheckout:  "checkout",
	StepConfirmed: "confirmed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Timing selects which step sequence the wizard walks.
type Timing string

const (
	TimingImmediate   Timing = "immediate"
	TimingReservation Timing = "reservation"
)

var (
	sequenceImmediate = []Step{
		StepLocation, StepTiming, StepDuration, StepProducts, StepCheckout, StepConfirmed,
	}
	sequenceReservation = []Step{
		StepLocation, StepTiming, StepDuration, StepDate, StepTime, StepProducts, StepCheckout, StepConfirmed,
	}
)

// Sequence returns the ordered step list for a timing mode. Immediate rentals
// skip the date and time picks; their window is filled in when the duration is
// chosen. An unset timing walks the full sequence.
func Sequence(t Timing) []Step {
	if t == TimingImmediate {
		return sequenceImmediate
	}
	return sequenceReservation
}

// indexIn returns the position of step in seq, or -1.
func indexIn(seq []Step, step Step) int {
	for i, s := range seq {
		if s == step {
			return i
		}
	}
	return -1
}
