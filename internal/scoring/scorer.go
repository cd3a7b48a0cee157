package scoring

import (
	"math"
	"sort"

	"floodwatch/internal/types"
)

const (
	// defaultConfidence is reported when the backend exposes no ensemble:
	// a fixed trust level signalling a low-fidelity model.
	defaultConfidence = 0.65

	// driverBaseline is the neutral indicator midpoint; driver impact is the
	// importance-weighted distance from it.
	driverBaseline = 50.0

	maxDrivers = 3
)

// Scorer orchestrates one scoring call: vector build, backend prediction,
// band classification, confidence derivation, and driver extraction. All
// sub-computations after the prediction are pure functions of
// already-gathered data; there is no I/O and no retry on this path.
type Scorer struct {
	builder *VectorBuilder
	backend Backend
}

// NewScorer binds a canonical feature order to a regression backend.
func NewScorer(featureOrder []string, backend Backend) (*Scorer, error) {
	builder, err := NewVectorBuilder(featureOrder)
	if err != nil {
		return nil, err
	}
	return &Scorer{builder: builder, backend: backend}, nil
}

// FeatureOrder returns the canonical feature order in use.
func (s *Scorer) FeatureOrder() []string {
	return s.builder.Names()
}

// Score assesses a validated scenario and returns the full risk result.
func (s *Scorer) Score(scenario *types.Scenario) (*types.FloodRiskResult, error) {
	vector := s.builder.Vector(scenario)

	prediction, err := s.backend.Predict(vector)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalScoring, "regression backend prediction failed", err)
	}

	return &types.FloodRiskResult{
		Score:        prediction,
		Band:         types.BandForScore(prediction),
		Confidence:   s.confidence(vector),
		FeatureOrder: s.builder.Names(),
		Scenario:     scenario,
		Drivers:      s.drivers(vector),
	}, nil
}

// confidence derives a confidence value from ensemble member spread when the
// backend exposes one: max(0, 100 - population stddev of member scores).
func (s *Scorer) confidence(vector []float64) float64 {
	ensemble, ok := s.backend.(EnsembleBackend)
	if !ok {
		return defaultConfidence
	}
	members := ensemble.MemberScores(vector)
	if len(members) == 0 {
		return defaultConfidence
	}
	return math.Max(0, 100-pstdev(members))
}

// drivers extracts up to three indicators with the highest positive
// importance-weighted distance from the neutral midpoint, ordered by
// descending impact.
func (s *Scorer) drivers(vector []float64) []types.Driver {
	provider, ok := s.backend.(ImportanceBackend)
	if !ok {
		return nil
	}
	importances := provider.FeatureImportances()
	if len(importances) != len(vector) {
		return nil
	}

	idx := make([]int, len(vector))
	contributions := make([]float64, len(vector))
	for i := range vector {
		idx[i] = i
		contributions[i] = importances[i] * math.Abs(vector[i]-driverBaseline)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return contributions[idx[a]] > contributions[idx[b]]
	})

	names := s.builder.Names()
	drivers := make([]types.Driver, 0, maxDrivers)
	for _, i := range idx {
		if len(drivers) == maxDrivers {
			break
		}
		if contributions[i] <= 0 {
			continue
		}
		drivers = append(drivers, types.Driver{
			Feature: names[i],
			Score:   types.Round2(vector[i]),
			Impact:  types.Round2(contributions[i]),
		})
	}
	return drivers
}

// pstdev computes the population standard deviation.
func pstdev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
