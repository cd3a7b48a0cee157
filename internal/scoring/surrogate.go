package scoring

import "math"

// featureWeights is the fixed signed weight table behind the heuristic
// surrogate. Positive weights push risk up, negative weights (drainage,
// river management, dam quality) pull it down. Features not listed here
// carry weight zero.
var featureWeights = map[string]float64{
	"MonsoonIntensity":                0.18,
	"TopographyDrainage":              -0.08,
	"RiverManagement":                 -0.09,
	"Deforestation":                   0.10,
	"Urbanization":                    0.12,
	"ClimateChange":                   0.08,
	"DamsQuality":                     -0.06,
	"Siltation":                       0.14,
	"AgriculturalPractices":           0.04,
	"Encroachments":                   0.08,
	"IneffectiveDisasterPreparedness": 0.10,
	"DrainageSystems":                 -0.08,
	"CoastalVulnerability":            0.09,
	"Landslides":                      0.07,
	"Watersheds":                      -0.05,
	"DeterioratingInfrastructure":     0.08,
	"PopulationScore":                 0.11,
	"WetlandLoss":                     0.07,
	"InadequatePlanning":              0.10,
	"PoliticalFactors":                0.03,
}

// surrogateMemberOffsets are the synthetic ensemble offsets, in score points
// on the 0-100 input scale, applied before normalization. The three members
// exist purely to support variance-based confidence derivation.
var surrogateMemberOffsets = [3]float64{-5, 0, 5}

// Score clipping bounds: the surrogate never reports absolute certainty in
// either direction.
const (
	surrogateFloor   = 0.10
	surrogateCeiling = 0.95
)

// Surrogate is the deterministic closed-form scorer used when the trained
// model is unavailable. It requires no external artifacts and always yields
// bit-identical output for identical input.
type Surrogate struct {
	featureOrder []string
	weights      []float64
	importances  []float64
}

// NewSurrogate builds a surrogate bound to the given canonical feature order.
// Importances are synthesized as the normalized absolute weights so that the
// generic driver-extraction logic works unmodified.
func NewSurrogate(featureOrder []string) *Surrogate {
	weights := make([]float64, len(featureOrder))
	importances := make([]float64, len(featureOrder))
	total := 0.0
	for i, name := range featureOrder {
		weights[i] = featureWeights[name]
		importances[i] = math.Abs(weights[i])
		total += importances[i]
	}
	if total == 0 {
		total = 1
	}
	for i := range importances {
		importances[i] /= total
	}
	return &Surrogate{
		featureOrder: featureOrder,
		weights:      weights,
		importances:  importances,
	}
}

// Predict scores a raw indicator vector (values in [0,100]).
// The blend is 60% weighted contribution, 40% overall baseline, with a mild
// convex push away from the midpoint so mid-range inputs spread toward the
// extremes, clipped to [0.10, 0.95].
func (s *Surrogate) Predict(vector []float64) (float64, error) {
	weighted := 0.0
	for i, v := range vector {
		weighted += (v / 100.0) * s.weights[i]
	}
	baseline := mean(vector) / 100.0
	combined := 0.6*weighted + 0.4*baseline
	adjusted := combined + 0.15*(combined-0.5)*(combined-0.5)
	return clip(adjusted, surrogateFloor, surrogateCeiling), nil
}

// MemberScores returns the synthetic 3-member ensemble predictions: the
// vector mean shifted by each offset, normalized to [0,1].
func (s *Surrogate) MemberScores(vector []float64) []float64 {
	base := mean(vector)
	scores := make([]float64, len(surrogateMemberOffsets))
	for i, offset := range surrogateMemberOffsets {
		scores[i] = clip((base+offset)/100.0, 0, 1)
	}
	return scores
}

// FeatureImportances returns the normalized absolute heuristic weights.
func (s *Surrogate) FeatureImportances() []float64 {
	return s.importances
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
