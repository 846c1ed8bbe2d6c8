package forecast

import (
	"context"
	"math/rand/v2"
	"sync"
)

const (
	horizonHours  = 24
	baseLoadKW    = 50.0
	loadSpreadKW  = 100.0
	peakThreshold = 140.0
	costPerKWh    = 8.5
	peakReduction = 20.0
)

// MockEngine generates a random 24-hour load curve. It stands in for the
// real model during demos.
type MockEngine struct {
	mu   sync.Mutex // rand.Rand is not safe for concurrent use
	rand *rand.Rand
}

// NewMockEngine returns an engine with its own random source.
func NewMockEngine() *MockEngine {
	return NewMockEngineWithSource(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewMockEngineWithSource lets tests pin the random source.
func NewMockEngineWithSource(r *rand.Rand) *MockEngine {
	return &MockEngine{rand: r}
}

func (e *MockEngine) Forecast(_ context.Context, _ uint) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	values := make([]float64, horizonHours)
	total := 0.0
	peak := false
	for i := range values {
		v := baseLoadKW + e.rand.Float64()*loadSpreadKW
		values[i] = v
		total += v
		if v > peakThreshold {
			peak = true
		}
	}

	reduction := 0.0
	if peak {
		reduction = peakReduction
	}

	return &Result{
		Forecast:                 values,
		PeakDetected:             peak,
		EstimatedCost:            total * costPerKWh,
		RecommendedLoadReduction: reduction,
	}, nil
}
