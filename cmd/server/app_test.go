package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/sird-api/internal/api"
	"github.com/phrazzld/sird-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-that-is-at-least-32-characters",
			TokenLifetimeMinutes: 60,
		},
		Simulation: config.SimulationConfig{
			WorkerCount:     2,
			QueueSize:       16,
			MaxBatchSize:    3,
			MaxDurationDays: 1000,
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer starts the fully wired API on the in-memory driver.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	app, err := newApplication(context.Background(), testConfig(), discardLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(func() {
		srv.Close()
		app.cleanup()
	})
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// register creates a user and returns a client authenticated as them.
func register(t *testing.T, srv *httptest.Server, email string) *client {
	t.Helper()

	c := &client{t: t, base: srv.URL}
	resp := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth api.AuthResponse
	decode(t, resp, &auth)
	require.NotEmpty(t, auth.Token)
	c.token = auth.Token
	return c
}

func simulationBody(name string, days int) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"totalPopulation":  10000,
		"initialInfected":  10,
		"transmissionRate": 0.4,
		"recoveryRate":     0.1,
		"mortalityRate":    0.02,
		"durationDays":     days,
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestSimulationRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	c := &client{t: t, base: srv.URL}

	for _, path := range []string{"/api/simulations", "/api/simulations/summary"} {
		resp := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	register(t, srv, "login@example.com")
	c := &client{t: t, base: srv.URL}

	resp := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "wrong-password-here",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSimulationLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ana := register(t, srv, "ana@example.com")
	rui := register(t, srv, "rui@example.com")

	resp := ana.do(http.MethodPost, "/api/simulations", simulationBody("Lisboa", 120))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first api.SimulationResponse
	decode(t, resp, &first)
	assert.Len(t, first.Series, 121)
	assert.Equal(t, 10000.0, first.Config.TotalPopulation)

	resp = ana.do(http.MethodPost, "/api/simulations", simulationBody("Faro", 60))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var second api.SimulationResponse
	decode(t, resp, &second)

	resp = ana.do(http.MethodGet, "/api/simulations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list api.ListResponse
	decode(t, resp, &list)
	require.Len(t, list.Simulations, 2)
	assert.Equal(t, second.ID, list.Simulations[0].ID)
	assert.Equal(t, first.ID, list.Simulations[1].ID)

	resp = ana.do(http.MethodGet, "/api/simulations?format=legacy", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var legacy []map[string]interface{}
	decode(t, resp, &legacy)
	require.Len(t, legacy, 2)
	assert.Equal(t, "Faro", legacy[0]["nome"])
	assert.Equal(t, "ana@example.com", legacy[0]["utilizador"])

	resp = ana.do(http.MethodGet, "/api/simulations/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Count int `json:"count"`
	}
	decode(t, resp, &summary)
	assert.Equal(t, 2, summary.Count)

	// Another user's delete is a no-op.
	resp = rui.do(http.MethodDelete, "/api/simulations/"+first.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ana.do(http.MethodDelete, "/api/simulations/"+first.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = ana.do(http.MethodDelete, "/api/simulations/"+first.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ana.do(http.MethodGet, "/api/simulations", nil)
	decode(t, resp, &list)
	require.Len(t, list.Simulations, 1)
	assert.Equal(t, second.ID, list.Simulations[0].ID)

	resp = rui.do(http.MethodGet, "/api/simulations", nil)
	decode(t, resp, &list)
	assert.Empty(t, list.Simulations)
}

func TestSimulationValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	c := register(t, srv, "val@example.com")

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{
			name: "initial infected above population",
			body: func() map[string]interface{} {
				b := simulationBody("x", 10)
				b["initialInfected"] = 20000
				return b
			}(),
			field: "initialInfected",
		},
		{
			name:  "zero duration",
			body:  simulationBody("x", 0),
			field: "durationDays",
		},
		{
			name: "mortality above one",
			body: func() map[string]interface{} {
				b := simulationBody("x", 10)
				b["mortalityRate"] = 1.5
				return b
			}(),
			field: "mortalityRate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.do(http.MethodPost, "/api/simulations", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body struct {
				Details struct {
					Field string `json:"field"`
				} `json:"details"`
			}
			decode(t, resp, &body)
			assert.Equal(t, tt.field, body.Details.Field)
		})
	}

	resp := c.do(http.MethodPost, "/api/simulations", simulationBody("too long", 5000))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/simulations", nil)
	var list api.ListResponse
	decode(t, resp, &list)
	assert.Empty(t, list.Simulations)
}

func TestBatchAndImport(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	c := register(t, srv, "batch@example.com")

	bad := simulationBody("bad", 30)
	bad["recoveryRate"] = 0
	resp := c.do(http.MethodPost, "/api/simulations/batch", map[string]interface{}{
		"simulations": []interface{}{simulationBody("a", 30), bad, simulationBody("c", 45)},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var batch api.BatchResponse
	decode(t, resp, &batch)
	require.Len(t, batch.Results, 3)
	assert.NotNil(t, batch.Results[0].Result)
	assert.Nil(t, batch.Results[1].Result)
	assert.NotEmpty(t, batch.Results[1].Error)
	assert.NotNil(t, batch.Results[2].Result)

	resp = c.do(http.MethodPost, "/api/simulations/batch", map[string]interface{}{
		"simulations": []interface{}{
			simulationBody("a", 1), simulationBody("b", 1), simulationBody("c", 1), simulationBody("d", 1),
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/simulations/import", `[
		{"id": 1700000000000, "nome": "Antigo", "populacaoTotal": 5000, "duracao": 20, "obitos": 40},
		{"id": 1600000000000, "nome": "Mais antigo", "duracao": 10}
	]`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var imported api.ImportResponse
	decode(t, resp, &imported)
	assert.Equal(t, 2, imported.Imported)

	resp = c.do(http.MethodGet, "/api/simulations", nil)
	var list api.ListResponse
	decode(t, resp, &list)
	require.Len(t, list.Simulations, 4)
	assert.Equal(t, "Mais antigo", list.Simulations[3].Config.Name)
	assert.Len(t, list.Simulations[3].Series, 11)
}
