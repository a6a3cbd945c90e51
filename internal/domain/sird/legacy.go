package sird

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Parameters assumed for legacy records. The browser application only kept
// population and duration, so the rates it ran with are not recoverable.
const (
	LegacyDefaultPopulation       = 100000
	LegacyDefaultInitialInfected  = 10
	LegacyDefaultTransmissionRate = 0.5
	LegacyDefaultRecoveryRate     = 0.1
	LegacyDefaultMortalityRate    = 0.02
	LegacyDefaultDurationDays     = 365

	legacyDateLayout = "02/01/2006"
)

// LegacyPoint is one day of a legacy chart series.
type LegacyPoint struct {
	Day         int   `json:"dia"`
	Susceptible int64 `json:"Suscetíveis"`
	Infected    int64 `json:"Infetados"`
	Recovered   int64 `json:"Recuperados"`
	Deceased    int64 `json:"Óbitos"`
}

// UnmarshalJSON accepts both spellings of the infected label ("Infetados" and
// "Infectados") found in stored data. Output always uses "Infetados".
func (p *LegacyPoint) UnmarshalJSON(data []byte) error {
	var aux struct {
		Day         int      `json:"dia"`
		Susceptible float64  `json:"Suscetíveis"`
		Infetados   *float64 `json:"Infetados"`
		Infectados  *float64 `json:"Infectados"`
		Recovered   float64  `json:"Recuperados"`
		Deceased    float64  `json:"Óbitos"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Day = aux.Day
	p.Susceptible = round(aux.Susceptible)
	p.Recovered = round(aux.Recovered)
	p.Deceased = round(aux.Deceased)
	switch {
	case aux.Infetados != nil:
		p.Infected = round(*aux.Infetados)
	case aux.Infectados != nil:
		p.Infected = round(*aux.Infectados)
	default:
		p.Infected = 0
	}
	return nil
}

// LegacyRecord is the field shape persisted by the original browser client.
type LegacyRecord struct {
	ID               int64         `json:"id"`
	Name             string        `json:"nome"`
	Date             string        `json:"data"`
	Deaths           int64         `json:"obitos"`
	Peak             int64         `json:"pico"`
	PeakDay          int           `json:"diaPico"`
	Recovered        int64         `json:"recuperados"`
	FinalSusceptible int64         `json:"suscetiveisFinais"`
	DurationDays     int           `json:"duracao"`
	TotalPopulation  float64       `json:"populacaoTotal"`
	Owner            string        `json:"utilizador"`
	Series           []LegacyPoint `json:"dadosGrafico"`
}

// DecodeLegacyRecords decodes an export of legacy records. It accepts a bare
// JSON array or an object holding the array under "records".
func DecodeLegacyRecords(data []byte) ([]LegacyRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []LegacyRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var wrapped struct {
		Records []LegacyRecord `json:"records"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Records, nil
}

// ToLegacy encodes r in the legacy field shape. ownerKey fills "utilizador",
// which historically held the owner's email.
func ToLegacy(r *Result, ownerKey string) LegacyRecord {
	series := make([]LegacyPoint, len(r.Series))
	for i, s := range r.Series {
		series[i] = LegacyPoint{
			Day:         s.Day,
			Susceptible: s.Susceptible,
			Infected:    s.Infected,
			Recovered:   s.Recovered,
			Deceased:    s.Deceased,
		}
	}

	return LegacyRecord{
		ID:               r.CreatedAt.UnixMilli(),
		Name:             r.Config.Name,
		Date:             r.CreatedAt.UTC().Format(legacyDateLayout),
		Deaths:           r.TotalDeaths,
		Peak:             int64(math.Round(r.Peak.Value)),
		PeakDay:          r.Peak.Day,
		Recovered:        r.TotalRecovered,
		FinalSusceptible: r.FinalSusceptible,
		DurationDays:     r.Config.DurationDays,
		TotalPopulation:  r.Config.TotalPopulation,
		Owner:            ownerKey,
		Series:           series,
	}
}

// FromLegacy decodes a legacy record into a new Result owned by ownerID.
//
// The legacy id (milliseconds since epoch) becomes CreatedAt so history order
// is preserved. Records saved without a chart series get one regenerated from
// the legacy default parameters. The assumed initial infected count never
// exceeds the record's population.
func (a *Assembler) FromLegacy(rec LegacyRecord, ownerID uuid.UUID) (*Result, error) {
	cfg := Config{
		Name:             rec.Name,
		TotalPopulation:  rec.TotalPopulation,
		InitialInfected:  LegacyDefaultInitialInfected,
		TransmissionRate: LegacyDefaultTransmissionRate,
		RecoveryRate:     LegacyDefaultRecoveryRate,
		MortalityRate:    LegacyDefaultMortalityRate,
		DurationDays:     rec.DurationDays,
	}
	if cfg.TotalPopulation == 0 {
		cfg.TotalPopulation = LegacyDefaultPopulation
	}
	if cfg.DurationDays == 0 {
		cfg.DurationDays = LegacyDefaultDurationDays
	}
	// Small legacy populations cannot hold the default seed.
	cfg.InitialInfected = min(cfg.InitialInfected, cfg.TotalPopulation)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("legacy record %d: %w", rec.ID, err)
	}

	id, err := a.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate result ID: %w", err)
	}

	createdAt := a.now()
	if rec.ID > 0 {
		createdAt = time.UnixMilli(rec.ID).UTC()
	}

	result := &Result{
		ID:               id,
		OwnerID:          ownerID,
		CreatedAt:        createdAt,
		Config:           cfg,
		Peak:             Peak{Value: float64(rec.Peak), Day: rec.PeakDay},
		TotalDeaths:      rec.Deaths,
		TotalRecovered:   rec.Recovered,
		FinalSusceptible: rec.FinalSusceptible,
	}

	if len(rec.Series) == 0 {
		traj := Integrate(cfg)
		result.Series = traj.Series
		return result, nil
	}

	result.Series = make([]Snapshot, len(rec.Series))
	for i, p := range rec.Series {
		result.Series[i] = Snapshot{
			Day:         p.Day,
			Susceptible: p.Susceptible,
			Infected:    p.Infected,
			Recovered:   p.Recovered,
			Deceased:    p.Deceased,
		}
	}
	return result, nil
}
