package scoring

import (
	"fmt"

	"floodwatch/internal/types"
)

// VectorBuilder orders scenario indicators into a fixed-order numeric vector
// following the canonical feature-name list. Construction verifies that every
// canonical name resolves to a scenario field, so a name mismatch is a
// startup configuration error rather than a per-request failure.
type VectorBuilder struct {
	names []string
}

// NewVectorBuilder validates the canonical feature order and returns a
// builder bound to it.
func NewVectorBuilder(names []string) (*VectorBuilder, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("canonical feature list is empty")
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !types.HasIndicator(name) {
			return nil, fmt.Errorf("canonical feature %q does not match any scenario indicator", name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("canonical feature %q listed more than once", name)
		}
		seen[name] = struct{}{}
	}
	ordered := make([]string, len(names))
	copy(ordered, names)
	return &VectorBuilder{names: ordered}, nil
}

// Vector extracts the ordered indicator values from a scenario.
// vector[i] corresponds to Names()[i].
func (b *VectorBuilder) Vector(s *types.Scenario) []float64 {
	vec := make([]float64, len(b.names))
	for i, name := range b.names {
		// Names were verified at construction; the lookup cannot miss.
		v, _ := s.Indicator(name)
		vec[i] = v
	}
	return vec
}

// Names returns a copy of the canonical feature order.
func (b *VectorBuilder) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}
