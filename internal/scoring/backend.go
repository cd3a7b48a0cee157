// Package scoring implements the flood-risk scoring pipeline: the canonical
// feature vector builder, the regression backends (trained ONNX model and
// deterministic heuristic surrogate), and the scorer that turns a scenario
// into a score, band, confidence, and driver set.
package scoring

// Backend is the common capability surface of a regression backend.
// Predict returns a scalar risk score, nominally in [0,1], for a raw
// feature vector ordered by the canonical feature list.
type Backend interface {
	Predict(vector []float64) (float64, error)
}

// EnsembleBackend is optionally implemented by backends that expose
// per-member predictions, enabling variance-based confidence derivation.
// MemberScores takes the same raw vector as Predict; any input scaling is
// the backend's own concern.
type EnsembleBackend interface {
	MemberScores(vector []float64) []float64
}

// ImportanceBackend is optionally implemented by backends that expose
// per-feature importances, enabling driver extraction. The returned slice
// is ordered by the canonical feature list.
type ImportanceBackend interface {
	FeatureImportances() []float64
}
