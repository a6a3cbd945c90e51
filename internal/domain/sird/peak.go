package sird

// Peak is the largest infected level seen during a run and the first day it
// was reached.
type Peak struct {
	Value float64 `json:"value"`
	Day   int     `json:"day"`
}

// PeakTracker records the infection peak while a run is integrated.
type PeakTracker struct {
	peak Peak
}

// NewPeakTracker starts tracking from the initial infected count at day 0.
func NewPeakTracker(initialInfected float64) *PeakTracker {
	return &PeakTracker{peak: Peak{Value: initialInfected, Day: 0}}
}

// ObserveDay implements Observer. Only a strict increase moves the peak, so on
// ties the earliest day wins.
func (t *PeakTracker) ObserveDay(day int, state State) {
	if state.Infected > t.peak.Value {
		t.peak = Peak{Value: state.Infected, Day: day}
	}
}

// Peak returns the peak observed so far.
func (t *PeakTracker) Peak() Peak {
	return t.peak
}
