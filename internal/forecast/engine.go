// Package forecast holds the energy forecast collaborator behind a stable
// interface so the mock engine can later be swapped for a real model without
// touching the auth and ownership core.
package forecast

import "context"

// Result is the forecast payload for one building over the next horizon.
type Result struct {
	Forecast                 []float64 `json:"forecast"`
	PeakDetected             bool      `json:"peak_detected"`
	EstimatedCost            float64   `json:"estimated_cost"`
	RecommendedLoadReduction float64   `json:"recommended_load_reduction"`
}

// Engine produces a forecast for a building. Callers are responsible for
// verifying the building belongs to whoever is asking before calling this.
type Engine interface {
	Forecast(ctx context.Context, buildingID uint) (*Result, error)
}
