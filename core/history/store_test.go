package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id, model string, ts time.Time) Record {
	return Record{
		ID:         id,
		Timestamp:  ts,
		PickupLat:  40.7128,
		PickupLon:  -74.0060,
		DropoffLat: 40.7589,
		DropoffLon: -73.9851,
		PickupTime: "2024-06-15T08:30:00",
		ModelUsed:  model,
		Prediction: 17.42,
		DistanceKm: 5.43,
	}
}

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	jsonl, err := NewJSONLStore(filepath.Join(dir, "predictions.log"))
	require.NoError(t, err)
	sqlite, err := NewSQLiteStore(filepath.Join(dir, "predictions.db"))
	require.NoError(t, err)
	return map[string]Store{"jsonl": jsonl, "sqlite": sqlite}
}

func TestStoreAppendAndQuery(t *testing.T) {
	base := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Append(ctx, sampleRecord("a", "random_forest", base)))
			require.NoError(t, store.Append(ctx, sampleRecord("b", "linear_regression", base.Add(time.Hour))))
			require.NoError(t, store.Append(ctx, sampleRecord("c", "random_forest", base.Add(2*time.Hour))))

			all, err := store.Query(ctx, Query{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "a", all[0].ID)
			assert.Equal(t, "c", all[2].ID)

			byModel, err := store.Query(ctx, Query{Model: "random_forest"})
			require.NoError(t, err)
			require.Len(t, byModel, 2)

			windowed, err := store.Query(ctx, Query{Start: base.Add(30 * time.Minute)})
			require.NoError(t, err)
			require.Len(t, windowed, 2)
			assert.Equal(t, "b", windowed[0].ID)

			limited, err := store.Query(ctx, Query{Limit: 1})
			require.NoError(t, err)
			require.Len(t, limited, 1)
			assert.Equal(t, "c", limited[0].ID)

			require.NoError(t, store.Close())
		})
	}
}

func TestJSONLStoreSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.log")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, sampleRecord("a", "xgboost", time.Now().UTC())))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	res, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestSQLiteStoreErrorRecord(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "p.db"))
	require.NoError(t, err)

	rec := sampleRecord("x", "random_forest", time.Now().UTC())
	rec.Error = "prediction failed: tree walk did not reach a leaf"
	rec.Prediction = 0
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, rec))

	res, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, rec.Error, res[0].Error)
	require.NoError(t, store.Close())
}
