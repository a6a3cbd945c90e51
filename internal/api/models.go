package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain"
	"github.com/phrazzld/sird-api/internal/domain/sird"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`
}

// FlexValue is a request field that accepts a JSON string or number. The
// text is kept verbatim so parameter validation sees what the client sent.
type FlexValue string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: expected a number or a string", domain.ErrInvalidFormat)
	}
	*f = FlexValue(n.String())
	return nil
}

// SimulationRequest defines the parameters of one simulation run. Every
// numeric field may be sent as a JSON number or as text.
type SimulationRequest struct {
	Name             FlexValue `json:"name"`
	TotalPopulation  FlexValue `json:"totalPopulation"`
	InitialInfected  FlexValue `json:"initialInfected"`
	TransmissionRate FlexValue `json:"transmissionRate"`
	RecoveryRate     FlexValue `json:"recoveryRate"`
	MortalityRate    FlexValue `json:"mortalityRate"`
	DurationDays     FlexValue `json:"durationDays"`
}

// Raw converts the request into parameters for sird.Parse.
func (r SimulationRequest) Raw() sird.RawParams {
	return sird.RawParams{
		Name:             string(r.Name),
		TotalPopulation:  string(r.TotalPopulation),
		InitialInfected:  string(r.InitialInfected),
		TransmissionRate: string(r.TransmissionRate),
		RecoveryRate:     string(r.RecoveryRate),
		MortalityRate:    string(r.MortalityRate),
		DurationDays:     string(r.DurationDays),
	}
}

// BatchRequest defines the payload for running several simulations.
type BatchRequest struct {
	Simulations []SimulationRequest `json:"simulations"`
}

// SimulationResponse is a stored result plus the values derived from it.
type SimulationResponse struct {
	ID               uuid.UUID       `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	Config           sird.Config     `json:"config"`
	Series           []sird.Snapshot `json:"series"`
	Peak             sird.Peak       `json:"peak_infected"`
	TotalDeaths      int64           `json:"total_deaths"`
	TotalRecovered   int64           `json:"total_recovered"`
	FinalSusceptible int64           `json:"final_susceptible"`
	PeakPercent      float64         `json:"peak_percent"`
	DeathPercent     float64         `json:"death_percent"`
	DurationMonths   int             `json:"duration_months"`
}

func newSimulationResponse(r *sird.Result) SimulationResponse {
	return SimulationResponse{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		Config:           r.Config,
		Series:           r.Series,
		Peak:             r.Peak,
		TotalDeaths:      r.TotalDeaths,
		TotalRecovered:   r.TotalRecovered,
		FinalSusceptible: r.FinalSusceptible,
		PeakPercent:      r.PeakPercent(),
		DeathPercent:     r.DeathPercent(),
		DurationMonths:   r.DurationMonths(),
	}
}

// ListResponse is the history of the authenticated user, most recent first.
type ListResponse struct {
	Simulations []SimulationResponse `json:"simulations"`
}

// BatchItem is the outcome of one batch entry.
type BatchItem struct {
	Index  int                   `json:"index"`
	Result *SimulationResponse   `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
	Detail *sird.ValidationError `json:"details,omitempty"`
}

// BatchResponse lists batch outcomes in request order.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// ImportResponse reports how many records were imported.
type ImportResponse struct {
	Imported int         `json:"imported"`
	IDs      []uuid.UUID `json:"ids"`
}
