package sird

import (
	"errors"
	"math"
	"testing"

	"github.com/phrazzld/sird-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawParams {
	return RawParams{
		Name:             "baseline",
		TotalPopulation:  "1000",
		InitialInfected:  "10",
		TransmissionRate: "0.5",
		RecoveryRate:     "0.1",
		MortalityRate:    "0.02",
		DurationDays:     "50",
	}
}

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(validRaw())
	require.NoError(t, err)
	assert.Equal(t, Config{
		Name:             "baseline",
		TotalPopulation:  1000,
		InitialInfected:  10,
		TransmissionRate: 0.5,
		RecoveryRate:     0.1,
		MortalityRate:    0.02,
		DurationDays:     50,
	}, cfg)
}

func TestParse_AcceptsExponentAndWhitespace(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.Name = "  spaced  "
	raw.TotalPopulation = " 1e6 "
	raw.DurationDays = "365.0"

	cfg, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "spaced", cfg.Name)
	assert.Equal(t, 1e6, cfg.TotalPopulation)
	assert.Equal(t, 365, cfg.DurationDays)
}

func TestParse_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*RawParams)
		kind   ErrorKind
		field  string
		target error
	}{
		{
			name:   "empty name",
			modify: func(r *RawParams) { r.Name = "   " },
			kind:   KindMissingField,
			field:  FieldName,
			target: ErrMissingField,
		},
		{
			name:   "missing population",
			modify: func(r *RawParams) { r.TotalPopulation = "" },
			kind:   KindMissingField,
			field:  FieldTotalPopulation,
			target: ErrMissingField,
		},
		{
			name:   "non numeric rate",
			modify: func(r *RawParams) { r.TransmissionRate = "fast" },
			kind:   KindMissingField,
			field:  FieldTransmissionRate,
			target: ErrMissingField,
		},
		{
			name:   "NaN is not a number",
			modify: func(r *RawParams) { r.RecoveryRate = "NaN" },
			kind:   KindMissingField,
			field:  FieldRecoveryRate,
			target: ErrMissingField,
		},
		{
			name:   "infinite duration",
			modify: func(r *RawParams) { r.DurationDays = "Inf" },
			kind:   KindMissingField,
			field:  FieldDurationDays,
			target: ErrMissingField,
		},
		{
			name:   "zero population",
			modify: func(r *RawParams) { r.TotalPopulation = "0" },
			kind:   KindOutOfRange,
			field:  FieldTotalPopulation,
			target: ErrOutOfRange,
		},
		{
			name:   "zero initial infected",
			modify: func(r *RawParams) { r.InitialInfected = "0" },
			kind:   KindOutOfRange,
			field:  FieldInitialInfected,
			target: ErrOutOfRange,
		},
		{
			name: "initial infected exceeds population",
			modify: func(r *RawParams) {
				r.TotalPopulation = "100"
				r.InitialInfected = "150"
			},
			kind:   KindInvalidRelation,
			field:  FieldInitialInfected,
			target: ErrInvalidRelation,
		},
		{
			name:   "negative transmission rate",
			modify: func(r *RawParams) { r.TransmissionRate = "-0.1" },
			kind:   KindOutOfRange,
			field:  FieldTransmissionRate,
			target: ErrOutOfRange,
		},
		{
			name:   "zero recovery rate",
			modify: func(r *RawParams) { r.RecoveryRate = "0" },
			kind:   KindOutOfRange,
			field:  FieldRecoveryRate,
			target: ErrOutOfRange,
		},
		{
			name:   "mortality above one",
			modify: func(r *RawParams) { r.MortalityRate = "1.5" },
			kind:   KindOutOfRange,
			field:  FieldMortalityRate,
			target: ErrOutOfRange,
		},
		{
			name:   "negative mortality",
			modify: func(r *RawParams) { r.MortalityRate = "-0.01" },
			kind:   KindOutOfRange,
			field:  FieldMortalityRate,
			target: ErrOutOfRange,
		},
		{
			name:   "zero duration",
			modify: func(r *RawParams) { r.DurationDays = "0" },
			kind:   KindOutOfRange,
			field:  FieldDurationDays,
			target: ErrOutOfRange,
		},
		{
			name:   "fractional duration",
			modify: func(r *RawParams) { r.DurationDays = "10.5" },
			kind:   KindOutOfRange,
			field:  FieldDurationDays,
			target: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := validRaw()
			tt.modify(&raw)

			_, err := Parse(raw)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestParse_DurationBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		days    string
		bound   string
		message string
	}{
		{
			name:    "fractional",
			days:    "2.5",
			bound:   "a positive integer",
			message: "durationDays must be a positive integer",
		},
		{
			name:    "beyond int32",
			days:    "1e12",
			bound:   "at most 2147483647",
			message: "durationDays must be at most 2147483647",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := validRaw()
			raw.DurationDays = tt.days

			_, err := Parse(raw)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
			assert.Equal(t, KindOutOfRange, verr.Kind)
			assert.Equal(t, tt.bound, verr.Bound)
			assert.Equal(t, tt.message, verr.Error())
		})
	}

	cfg, err := Parse(RawParams{
		Name: "edge", TotalPopulation: "100", InitialInfected: "1",
		TransmissionRate: "0.5", RecoveryRate: "0.1", MortalityRate: "0", DurationDays: "2147483647",
	})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, cfg.DurationDays)
}

func TestParse_ReportsFirstViolationOnly(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.TotalPopulation = "-5"
	raw.MortalityRate = "7"
	raw.DurationDays = ""

	_, err := Parse(raw)

	// Missing fields are checked before any range.
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindMissingField, verr.Kind)
	assert.Equal(t, FieldDurationDays, verr.Field)

	raw.DurationDays = "30"
	_, err = Parse(raw)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindOutOfRange, verr.Kind)
	assert.Equal(t, FieldTotalPopulation, verr.Field)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid, err := Parse(validRaw())
	require.NoError(t, err)
	assert.NoError(t, valid.Validate())

	boundary := valid
	boundary.InitialInfected = boundary.TotalPopulation
	boundary.MortalityRate = 1
	assert.NoError(t, boundary.Validate(), "I0 == N and mu == 1 are allowed")

	noName := valid
	noName.Name = ""
	assert.ErrorIs(t, noName.Validate(), ErrMissingField)

	tooMany := valid
	tooMany.TotalPopulation = 100
	tooMany.InitialInfected = 150
	assert.ErrorIs(t, tooMany.Validate(), ErrInvalidRelation)

	noDays := valid
	noDays.DurationDays = -1
	assert.ErrorIs(t, noDays.Validate(), ErrOutOfRange)
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "totalPopulation must be > 0",
		(&ValidationError{Kind: KindOutOfRange, Field: FieldTotalPopulation, Bound: "> 0"}).Error())
	assert.Equal(t, "initialInfected must not exceed totalPopulation",
		(&ValidationError{Kind: KindInvalidRelation, Field: FieldInitialInfected, Bound: FieldTotalPopulation}).Error())
	assert.Equal(t, "name is required and must be a valid value",
		(&ValidationError{Kind: KindMissingField, Field: FieldName}).Error())
}
