package sird

import (
	"github.com/google/uuid"
)

// Simulator defines the full run pipeline: validation, integration with peak
// tracking, and assembly into a Result.
type Simulator interface {
	// Run simulates cfg for ownerID. It returns a *ValidationError and no
	// result when cfg is invalid.
	Run(cfg Config, ownerID uuid.UUID) (*Result, error)
}

// defaultSimulator is the standard implementation of Simulator.
type defaultSimulator struct {
	assembler *Assembler
}

// NewSimulator creates a Simulator using the default Assembler.
func NewSimulator() Simulator {
	return &defaultSimulator{assembler: NewAssembler()}
}

// NewSimulatorWithAssembler creates a Simulator with a custom Assembler.
func NewSimulatorWithAssembler(assembler *Assembler) Simulator {
	return &defaultSimulator{assembler: assembler}
}

// Run implements Simulator.
func (s *defaultSimulator) Run(cfg Config, ownerID uuid.UUID) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	traj, peak := Simulate(cfg)
	return s.assembler.Assemble(cfg, traj, peak, ownerID)
}

// Simulate integrates a validated cfg with a PeakTracker attached.
func Simulate(cfg Config) (Trajectory, Peak) {
	tracker := NewPeakTracker(cfg.InitialInfected)
	traj := Integrate(cfg, tracker)
	return traj, tracker.Peak()
}
