// Package history persists served predictions for later inspection.
package history

import (
	"context"
	"time"
)

// Record captures one served prediction, successful or failed.
type Record struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	PickupLat  float64   `json:"pickup_latitude"`
	PickupLon  float64   `json:"pickup_longitude"`
	DropoffLat float64   `json:"dropoff_latitude"`
	DropoffLon float64   `json:"dropoff_longitude"`
	PickupTime string    `json:"pickup_datetime"`
	ModelUsed  string    `json:"model_used"`
	Prediction float64   `json:"prediction"`
	DistanceKm float64   `json:"distance_km,omitempty"`
	Batch      bool      `json:"batch,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Query defines filters for retrieving records. A positive Limit keeps only
// the most recent matches.
type Query struct {
	Start time.Time
	End   time.Time
	Model string
	Limit int
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
