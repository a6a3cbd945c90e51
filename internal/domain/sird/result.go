package sird

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Result validation errors.
var (
	ErrEmptyResultID = errors.New("result ID cannot be empty")
	ErrEmptyOwnerID  = errors.New("result owner ID cannot be empty")
	ErrEmptySeries   = errors.New("result series cannot be empty")
)

// Result is the immutable record of one simulation run. It is created once by
// an Assembler and afterwards only retrieved or deleted as a whole.
type Result struct {
	ID               uuid.UUID  `json:"id"`
	OwnerID          uuid.UUID  `json:"owner_id"`
	CreatedAt        time.Time  `json:"created_at"`
	Config           Config     `json:"config"`
	Series           []Snapshot `json:"series"`
	Peak             Peak       `json:"peak_infected"`
	TotalDeaths      int64      `json:"total_deaths"`
	TotalRecovered   int64      `json:"total_recovered"`
	FinalSusceptible int64      `json:"final_susceptible"`
}

// Validate checks the structural invariants a stored result must satisfy.
func (r *Result) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyResultID
	}
	if r.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if len(r.Series) == 0 {
		return ErrEmptySeries
	}
	if err := r.Config.Validate(); err != nil {
		return fmt.Errorf("invalid result config: %w", err)
	}
	return nil
}

// Clone returns a deep copy so stores can hand out results without sharing
// the series backing array.
func (r *Result) Clone() *Result {
	c := *r
	c.Series = make([]Snapshot, len(r.Series))
	copy(c.Series, r.Series)
	return &c
}

// PeakPercent is the rounded peak as a percentage of the population.
func (r *Result) PeakPercent() float64 {
	return math.Round(r.Peak.Value) / r.Config.TotalPopulation * 100
}

// DeathPercent is the final death count as a percentage of the population.
func (r *Result) DeathPercent() float64 {
	return float64(r.TotalDeaths) / r.Config.TotalPopulation * 100
}

// DurationMonths approximates the horizon in 30-day months.
func (r *Result) DurationMonths() int {
	return int(math.Round(float64(r.Config.DurationDays) / 30))
}

// Assembler packages finished runs into Results.
type Assembler struct {
	newID func() (uuid.UUID, error)
	now   func() time.Time
}

// NewAssembler creates an Assembler issuing time-ordered UUIDv7 identifiers.
func NewAssembler() *Assembler {
	return &Assembler{
		newID: uuid.NewV7,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewAssemblerWithClock creates an Assembler with injected id and time
// sources. Intended for tests and data imports.
func NewAssemblerWithClock(newID func() (uuid.UUID, error), now func() time.Time) *Assembler {
	return &Assembler{newID: newID, now: now}
}

// Assemble maps a completed trajectory and peak onto a new Result owned by
// ownerID. Final compartment values are rounded like the series.
func (a *Assembler) Assemble(cfg Config, traj Trajectory, peak Peak, ownerID uuid.UUID) (*Result, error) {
	id, err := a.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate result ID: %w", err)
	}

	return &Result{
		ID:               id,
		OwnerID:          ownerID,
		CreatedAt:        a.now(),
		Config:           cfg,
		Series:           traj.Series,
		Peak:             peak,
		TotalDeaths:      round(traj.Final.Deceased),
		TotalRecovered:   round(traj.Final.Recovered),
		FinalSusceptible: round(traj.Final.Susceptible),
	}, nil
}
