package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Artifact bundle file names. The bundle directory is configurable; these
// names are fixed by the training pipeline that exports the artifacts.
const (
	featureNamesFile = "feature_names.json"
	scalerFile       = "scaler.yaml"
	modelFile        = "flood_model.onnx"
	importancesFile  = "feature_importances.json"
)

// featureNameCache backs the process-lifetime feature-name singleton.
// The load is idempotent and side-effect free, so the once barrier only
// exists to avoid duplicate artifact reads under concurrent startup traffic.
var featureNameCache struct {
	once  sync.Once
	names []string
	err   error
}

// LoadFeatureNames reads the canonical feature-name list from the artifact
// directory. The result is cached for the process lifetime; subsequent calls
// return the first outcome regardless of dir. Absence of this artifact is
// fatal at startup because the scorer cannot operate without a canonical
// feature order.
func LoadFeatureNames(dir string) ([]string, error) {
	featureNameCache.once.Do(func() {
		featureNameCache.names, featureNameCache.err = readFeatureNames(dir)
	})
	return featureNameCache.names, featureNameCache.err
}

func readFeatureNames(dir string) ([]string, error) {
	path := filepath.Join(dir, featureNamesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feature name artifact %s: %w", path, err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s contains no feature names", path)
	}
	return names, nil
}

// scalerParams holds the fitted standard-scaler vectors exported by the
// training pipeline. Inputs are transformed as (x - Mean[i]) / Scale[i].
type scalerParams struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

func loadScaler(dir string, featureCount int) (*scalerParams, error) {
	path := filepath.Join(dir, scalerFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scaler artifact %s: %w", path, err)
	}
	var params scalerParams
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(params.Mean) != featureCount || len(params.Scale) != featureCount {
		return nil, fmt.Errorf("scaler dimensions (%d mean, %d scale) do not match %d features",
			len(params.Mean), len(params.Scale), featureCount)
	}
	for i, s := range params.Scale {
		if s == 0 {
			return nil, fmt.Errorf("scaler scale[%d] is zero", i)
		}
	}
	return &params, nil
}

// loadImportances reads the optional per-feature importance artifact.
// A missing file is not an error; it simply disables driver extraction for
// the trained model.
func loadImportances(dir string, featureCount int) ([]float64, error) {
	path := filepath.Join(dir, importancesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading importance artifact %s: %w", path, err)
	}
	var imps []float64
	if err := json.Unmarshal(data, &imps); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(imps) != featureCount {
		return nil, fmt.Errorf("importance artifact has %d entries for %d features", len(imps), featureCount)
	}
	return imps, nil
}
