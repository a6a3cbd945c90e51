package sird

import (
	"math"
	"strconv"
	"strings"
)

// Field names as they appear in requests and validation errors.
const (
	FieldName             = "name"
	FieldTotalPopulation  = "totalPopulation"
	FieldInitialInfected  = "initialInfected"
	FieldTransmissionRate = "transmissionRate"
	FieldRecoveryRate     = "recoveryRate"
	FieldMortalityRate    = "mortalityRate"
	FieldDurationDays     = "durationDays"
)

// maxDurationDays keeps durationDays representable as an int on every platform.
const maxDurationDays = math.MaxInt32

// RawParams holds simulation parameters exactly as a user typed them.
type RawParams struct {
	Name             string
	TotalPopulation  string
	InitialInfected  string
	TransmissionRate string
	RecoveryRate     string
	MortalityRate    string
	DurationDays     string
}

// Config is a validated simulation configuration. It is treated as
// read-only once Parse or Validate has accepted it.
type Config struct {
	Name             string  `json:"name"`
	TotalPopulation  float64 `json:"totalPopulation"`
	InitialInfected  float64 `json:"initialInfected"`
	TransmissionRate float64 `json:"transmissionRate"`
	RecoveryRate     float64 `json:"recoveryRate"`
	MortalityRate    float64 `json:"mortalityRate"`
	DurationDays     int     `json:"durationDays"`
}

// Parse turns raw user input into a Config.
//
// Checks run in a fixed order and the first violation is returned as a
// *ValidationError:
//  1. every field present, non-empty and numeric where a number is expected
//  2. totalPopulation > 0
//  3. 0 < initialInfected <= totalPopulation
//  4. transmissionRate > 0
//  5. recoveryRate > 0
//  6. 0 <= mortalityRate <= 1
//  7. durationDays is a positive integer
func Parse(raw RawParams) (Config, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Config{}, missingField(FieldName)
	}

	inputs := []struct {
		field string
		value string
	}{
		{FieldTotalPopulation, raw.TotalPopulation},
		{FieldInitialInfected, raw.InitialInfected},
		{FieldTransmissionRate, raw.TransmissionRate},
		{FieldRecoveryRate, raw.RecoveryRate},
		{FieldMortalityRate, raw.MortalityRate},
		{FieldDurationDays, raw.DurationDays},
	}

	values := make([]float64, len(inputs))
	for i, in := range inputs {
		v, err := parseNumber(in.value)
		if err != nil {
			return Config{}, missingField(in.field)
		}
		values[i] = v
	}

	n, i0, beta, gamma, mu, days := values[0], values[1], values[2], values[3], values[4], values[5]
	if err := checkRanges(n, i0, beta, gamma, mu, days); err != nil {
		return Config{}, err
	}

	return Config{
		Name:             name,
		TotalPopulation:  n,
		InitialInfected:  i0,
		TransmissionRate: beta,
		RecoveryRate:     gamma,
		MortalityRate:    mu,
		DurationDays:     int(days),
	}, nil
}

// Validate applies the same ordered checks as Parse to an already typed
// configuration, e.g. one decoded from JSON.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return missingField(FieldName)
	}

	numbers := []struct {
		field string
		value float64
	}{
		{FieldTotalPopulation, c.TotalPopulation},
		{FieldInitialInfected, c.InitialInfected},
		{FieldTransmissionRate, c.TransmissionRate},
		{FieldRecoveryRate, c.RecoveryRate},
		{FieldMortalityRate, c.MortalityRate},
	}
	for _, num := range numbers {
		if !isFinite(num.value) {
			return missingField(num.field)
		}
	}

	return checkRanges(
		c.TotalPopulation,
		c.InitialInfected,
		c.TransmissionRate,
		c.RecoveryRate,
		c.MortalityRate,
		float64(c.DurationDays),
	)
}

// checkRanges runs checks 2 through 7 in order.
func checkRanges(n, i0, beta, gamma, mu, days float64) error {
	if n <= 0 {
		return outOfRange(FieldTotalPopulation, "> 0")
	}
	if i0 <= 0 {
		return outOfRange(FieldInitialInfected, "> 0")
	}
	if i0 > n {
		return invalidRelation(FieldInitialInfected, FieldTotalPopulation)
	}
	if beta <= 0 {
		return outOfRange(FieldTransmissionRate, "> 0")
	}
	if gamma <= 0 {
		return outOfRange(FieldRecoveryRate, "> 0")
	}
	if mu < 0 || mu > 1 {
		return outOfRange(FieldMortalityRate, "within [0, 1]")
	}
	if days <= 0 || days != math.Trunc(days) {
		return outOfRange(FieldDurationDays, "a positive integer")
	}
	if days > maxDurationDays {
		return outOfRange(FieldDurationDays, "at most "+strconv.Itoa(maxDurationDays))
	}
	return nil
}

// parseNumber accepts decimal or exponent notation and rejects NaN and
// infinities, which strconv would otherwise let through.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
