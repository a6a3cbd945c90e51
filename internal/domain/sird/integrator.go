package sird

import "math"

// Integration constants. Ten sub-steps per reported day stabilise the
// explicit scheme; callers never choose the step size.
const (
	StepSize    = 0.1
	StepsPerDay = 10
)

// State is the continuous compartment state of a single run.
type State struct {
	Susceptible float64
	Infected    float64
	Recovered   float64
	Deceased    float64
}

// Total returns S + I + R + D.
func (s State) Total() float64 {
	return s.Susceptible + s.Infected + s.Recovered + s.Deceased
}

// Snapshot is the integer-rounded state reported for one simulated day.
type Snapshot struct {
	Day         int   `json:"day"`
	Susceptible int64 `json:"susceptible"`
	Infected    int64 `json:"infected"`
	Recovered   int64 `json:"recovered"`
	Deceased    int64 `json:"deceased"`
}

// Observer is notified once per recorded day, day 0 included, with the
// state before rounding.
type Observer interface {
	ObserveDay(day int, state State)
}

// Trajectory is the outcome of one integration run.
type Trajectory struct {
	Series []Snapshot
	Final  State
}

// InitialState returns the day-0 state for cfg.
func InitialState(cfg Config) State {
	return State{
		Susceptible: cfg.TotalPopulation - cfg.InitialInfected,
		Infected:    cfg.InitialInfected,
	}
}

// Integrate advances the model from day 0 through cfg.DurationDays and returns
// one snapshot per day. The run always covers the full horizon; it does not
// stop once the infected compartment dies out.
//
// cfg must have passed validation: the population is used as a divisor.
func Integrate(cfg Config, observers ...Observer) Trajectory {
	state := InitialState(cfg)
	series := make([]Snapshot, 0, cfg.DurationDays+1)

	record := func(day int) {
		series = append(series, snapshot(day, state))
		for _, o := range observers {
			o.ObserveDay(day, state)
		}
	}

	record(0)
	for day := 1; day <= cfg.DurationDays; day++ {
		for sub := 0; sub < StepsPerDay; sub++ {
			state = step(cfg, state)
		}
		record(day)
	}

	return Trajectory{Series: series, Final: state}
}

// step applies one forward Euler sub-step. S and I are clamped at zero so the
// discretisation never reports a negative population.
func step(cfg Config, s State) State {
	newInfections := cfg.TransmissionRate * s.Susceptible * s.Infected / cfg.TotalPopulation * StepSize
	newRecoveries := cfg.RecoveryRate * s.Infected * (1 - cfg.MortalityRate) * StepSize
	newDeaths := cfg.RecoveryRate * s.Infected * cfg.MortalityRate * StepSize

	return State{
		Susceptible: math.Max(0, s.Susceptible-newInfections),
		Infected:    math.Max(0, s.Infected+newInfections-newRecoveries-newDeaths),
		Recovered:   s.Recovered + newRecoveries,
		Deceased:    s.Deceased + newDeaths,
	}
}

func snapshot(day int, s State) Snapshot {
	return Snapshot{
		Day:         day,
		Susceptible: round(s.Susceptible),
		Infected:    round(s.Infected),
		Recovered:   round(s.Recovered),
		Deceased:    round(s.Deceased),
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
