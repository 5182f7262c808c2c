package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("down") }

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		database Pinger
		cache    Pinger
		status   Status
		services Services
	}{
		{"memory only", nil, nil, StatusHealthy, Services{API: Operational}},
		{"database only", ok, nil, StatusHealthy, Services{API: Operational, Database: Operational}},
		{"all up", ok, ok, StatusHealthy, Services{API: Operational, Database: Operational, Cache: Operational}},
		{"database down", fail, nil, StatusDegraded, Services{API: Operational, Database: Degraded}},
		{"cache without database", nil, ok, StatusHealthy, Services{API: Operational, Cache: Operational}},
		{"cache down", ok, fail, StatusDegraded, Services{API: Operational, Database: Operational, Cache: Down}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChecker("1.2.3", tt.database, tt.cache).Check(context.Background())
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.services, got.Services)
			assert.Equal(t, "1.2.3", got.Version)
			assert.GreaterOrEqual(t, got.Uptime, 0.0)
		})
	}
}

func TestRedisPingerNil(t *testing.T) {
	assert.Nil(t, RedisPinger(nil))
}

func TestHandle(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewChecker("1.0.0", nil, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Data    Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, StatusHealthy, body.Data.Status)
	assert.Equal(t, Operational, body.Data.Services.API)
	assert.NotContains(t, rec.Body.String(), `"database"`)
	assert.NotContains(t, rec.Body.String(), `"cache"`)
}
