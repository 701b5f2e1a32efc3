package fares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/farecast/core/model"
	"github.com/kilianp07/farecast/core/predict"
	"github.com/kilianp07/farecast/core/registry"
	"github.com/kilianp07/farecast/internal/eventbus"
)

const leafArtifact = `{"kind":"tree","params":{"nodes":[{"leaf":true,"value":18.5}]}}`

func newTestService(t *testing.T, ids ...string) *predict.Service {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		path := filepath.Join(dir, registry.ArtifactFile(id))
		require.NoError(t, os.WriteFile(path, []byte(leafArtifact), 0o644))
	}
	return predict.New(registry.New(dir), "", nil)
}

const validBody = `{
	"pickup_latitude": 40.7128,
	"pickup_longitude": -74.0060,
	"dropoff_latitude": 40.7589,
	"dropoff_longitude": -73.9851,
	"pickup_datetime": "2024-06-15T08:30:00"
}`

func TestPredictHandlerSuccess(t *testing.T) {
	svc := newTestService(t, "random_forest")
	bus := eventbus.New()
	sub := bus.Subscribe()
	h := NewPredictHandler(svc, bus, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody)))

	require.Equal(t, http.StatusOK, rec.Code)
	var res model.PredictionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 18.5, res.Prediction)
	assert.Equal(t, "random_forest", res.ModelUsed)
	assert.InDelta(t, 5.43, res.DistanceKm, 0.1)

	ev := <-sub
	assert.Equal(t, "random_forest", ev.Model)
	assert.Equal(t, "success", ev.Outcome())
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, 40.7128, ev.PickupLat)
}

func TestPredictHandlerMissingField(t *testing.T) {
	svc := newTestService(t, "random_forest")
	h := NewPredictHandler(svc, nil, nil)

	body := `{"pickup_latitude": 40.7, "pickup_longitude": -74.0, "dropoff_latitude": 40.75, "dropoff_longitude": -73.98}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.Error, "pickup_datetime")
}

func TestPredictHandlerNoModels(t *testing.T) {
	svc := newTestService(t)
	h := NewPredictHandler(svc, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPredictHandlerInvalidJSON(t *testing.T) {
	svc := newTestService(t, "random_forest")
	h := NewPredictHandler(svc, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictHandlerMethodNotAllowed(t *testing.T) {
	svc := newTestService(t, "random_forest")
	h := NewPredictHandler(svc, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/predict", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBatchHandlerPartialFailure(t *testing.T) {
	svc := newTestService(t, "random_forest", "linear_regression")
	h := NewBatchHandler(svc, nil, nil)

	body := `{"predictions": [
		` + validBody + `,
		{"pickup_latitude": 40.7, "pickup_longitude": -74.0, "dropoff_latitude": 40.75, "dropoff_longitude": -73.98, "pickup_datetime": "garbage"},
		` + validBody + `
	]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/batch-predict", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []struct {
		Prediction *float64 `json:"prediction"`
		ModelUsed  string   `json:"model_used"`
		Error      string   `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)

	require.NotNil(t, entries[0].Prediction)
	assert.Equal(t, 18.5, *entries[0].Prediction)
	assert.Empty(t, entries[0].Error)

	assert.Nil(t, entries[1].Prediction)
	assert.Contains(t, entries[1].Error, "pickup_datetime")

	require.NotNil(t, entries[2].Prediction)
	assert.Equal(t, "random_forest", entries[2].ModelUsed)
}

func TestBatchHandlerMissingContainer(t *testing.T) {
	svc := newTestService(t, "random_forest")
	h := NewBatchHandler(svc, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/batch-predict", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.Error, "predictions")
}
