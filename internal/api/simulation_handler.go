package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/api/shared"
	"github.com/phrazzld/sird-api/internal/domain"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/platform/logger"
	"github.com/phrazzld/sird-api/internal/service"
)

// FormatLegacy selects the legacy field shape on GET /simulations.
const FormatLegacy = "legacy"

// SimulationHandler handles simulation runs and history requests.
type SimulationHandler struct {
	simulations service.SimulationService
	users       service.UserService
	logger      *slog.Logger
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(
	simulations service.SimulationService,
	users service.UserService,
	logger *slog.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		simulations: simulations,
		users:       users,
		logger:      logger.With("component", "simulation_handler"),
	}
}

// Run handles POST /simulations.
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req SimulationRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err), "")
		return
	}

	cfg, err := sird.Parse(req.Raw())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.simulations.Run(r.Context(), userID, cfg)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to run simulation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newSimulationResponse(result))
}

// RunBatch handles POST /simulations/batch. Entries that fail parameter
// parsing are reported alongside the outcomes of the ones that ran.
func (h *SimulationHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req BatchRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err), "")
		return
	}
	if len(req.Simulations) == 0 {
		HandleAPIError(w, r, service.ErrEmptyBatch, "")
		return
	}

	items := make([]BatchItem, len(req.Simulations))
	cfgs := make([]sird.Config, 0, len(req.Simulations))
	indexes := make([]int, 0, len(req.Simulations))
	for i, sim := range req.Simulations {
		items[i].Index = i
		cfg, err := sird.Parse(sim.Raw())
		if err != nil {
			items[i].setError(err)
			continue
		}
		cfgs = append(cfgs, cfg)
		indexes = append(indexes, i)
	}

	if len(cfgs) > 0 {
		outcomes, err := h.simulations.RunBatch(r.Context(), userID, cfgs)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to run simulations")
			return
		}
		for j, outcome := range outcomes {
			item := &items[indexes[j]]
			if outcome.Err != nil {
				item.setError(outcome.Err)
				continue
			}
			resp := newSimulationResponse(outcome.Result)
			item.Result = &resp
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BatchResponse{Results: items})
}

func (i *BatchItem) setError(err error) {
	i.Error = GetSafeErrorMessage(err)
	var vErr *sird.ValidationError
	if errors.As(err, &vErr) {
		i.Detail = vErr
	}
}

// List handles GET /simulations. With ?format=legacy the history is encoded
// in the legacy record shape.
func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != FormatLegacy {
		HandleAPIError(w, r, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidFormat, format), "")
		return
	}

	results, err := h.simulations.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list simulations")
		return
	}

	if format == FormatLegacy {
		user, err := h.users.GetUser(r.Context(), userID)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to list simulations")
			return
		}
		records := make([]sird.LegacyRecord, len(results))
		for i, res := range results {
			records[i] = sird.ToLegacy(res, user.Email)
		}
		shared.RespondWithJSON(w, r, http.StatusOK, records)
		return
	}

	resp := ListResponse{Simulations: make([]SimulationResponse, len(results))}
	for i, res := range results {
		resp.Simulations[i] = newSimulationResponse(res)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Summary handles GET /simulations/summary.
func (h *SimulationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	summary, err := h.simulations.Summarize(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to summarize simulations")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// Delete handles DELETE /simulations/{id}. It responds 204 whether or not
// the id was in the caller's history.
func (h *SimulationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.simulations.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete simulation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /simulations/import. The body is either
// {"records": [...]} or a bare array of legacy records.
func (h *SimulationHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	records, err := decodeLegacyRecords(w, r)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err), "")
		return
	}

	results, err := h.simulations.ImportLegacy(r.Context(), userID, records)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import simulations")
		return
	}

	resp := ImportResponse{Imported: len(results), IDs: make([]uuid.UUID, len(results))}
	for i, res := range results {
		resp.IDs[i] = res.ID
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

func decodeLegacyRecords(w http.ResponseWriter, r *http.Request) ([]sird.LegacyRecord, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, shared.MaxRequestBodyBytes))
	if err != nil {
		return nil, err
	}
	return sird.DecodeLegacyRecords(body)
}
