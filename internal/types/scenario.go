package types

import (
	"time"
)

// Indicator bounds. Every scenario indicator is a normalized score capturing
// structural, climatic, and governance flood-risk factors.
const (
	MinIndicatorScore = 0.0
	MaxIndicatorScore = 100.0
)

// ScenarioRequest is the inbound DTO for an assessment request. The twenty
// indicator fields use pointers so that a missing field is distinguishable
// from a legitimate zero score; validation rejects nil and out-of-range
// values before the payload reaches the scorer.
type ScenarioRequest struct {
	MonsoonIntensity                *float64 `json:"MonsoonIntensity" validate:"required,gte=0,lte=100"`
	TopographyDrainage              *float64 `json:"TopographyDrainage" validate:"required,gte=0,lte=100"`
	RiverManagement                 *float64 `json:"RiverManagement" validate:"required,gte=0,lte=100"`
	Deforestation                   *float64 `json:"Deforestation" validate:"required,gte=0,lte=100"`
	Urbanization                    *float64 `json:"Urbanization" validate:"required,gte=0,lte=100"`
	ClimateChange                   *float64 `json:"ClimateChange" validate:"required,gte=0,lte=100"`
	DamsQuality                     *float64 `json:"DamsQuality" validate:"required,gte=0,lte=100"`
	Siltation                       *float64 `json:"Siltation" validate:"required,gte=0,lte=100"`
	AgriculturalPractices           *float64 `json:"AgriculturalPractices" validate:"required,gte=0,lte=100"`
	Encroachments                   *float64 `json:"Encroachments" validate:"required,gte=0,lte=100"`
	IneffectiveDisasterPreparedness *float64 `json:"IneffectiveDisasterPreparedness" validate:"required,gte=0,lte=100"`
	DrainageSystems                 *float64 `json:"DrainageSystems" validate:"required,gte=0,lte=100"`
	CoastalVulnerability            *float64 `json:"CoastalVulnerability" validate:"required,gte=0,lte=100"`
	Landslides                      *float64 `json:"Landslides" validate:"required,gte=0,lte=100"`
	Watersheds                      *float64 `json:"Watersheds" validate:"required,gte=0,lte=100"`
	DeterioratingInfrastructure     *float64 `json:"DeterioratingInfrastructure" validate:"required,gte=0,lte=100"`
	PopulationScore                 *float64 `json:"PopulationScore" validate:"required,gte=0,lte=100"`
	WetlandLoss                     *float64 `json:"WetlandLoss" validate:"required,gte=0,lte=100"`
	InadequatePlanning              *float64 `json:"InadequatePlanning" validate:"required,gte=0,lte=100"`
	PoliticalFactors                *float64 `json:"PoliticalFactors" validate:"required,gte=0,lte=100"`

	District  string     `json:"district" validate:"required"`
	State     string     `json:"state" validate:"required"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Scenario is the validated, immutable flood-risk scenario for one district.
// It is only constructed through ScenarioRequest.Scenario after validation,
// so all twenty indicators are guaranteed present and in [0,100].
type Scenario struct {
	MonsoonIntensity                float64 `json:"MonsoonIntensity"`
	TopographyDrainage              float64 `json:"TopographyDrainage"`
	RiverManagement                 float64 `json:"RiverManagement"`
	Deforestation                   float64 `json:"Deforestation"`
	Urbanization                    float64 `json:"Urbanization"`
	ClimateChange                   float64 `json:"ClimateChange"`
	DamsQuality                     float64 `json:"DamsQuality"`
	Siltation                       float64 `json:"Siltation"`
	AgriculturalPractices           float64 `json:"AgriculturalPractices"`
	Encroachments                   float64 `json:"Encroachments"`
	IneffectiveDisasterPreparedness float64 `json:"IneffectiveDisasterPreparedness"`
	DrainageSystems                 float64 `json:"DrainageSystems"`
	CoastalVulnerability            float64 `json:"CoastalVulnerability"`
	Landslides                      float64 `json:"Landslides"`
	Watersheds                      float64 `json:"Watersheds"`
	DeterioratingInfrastructure     float64 `json:"DeterioratingInfrastructure"`
	PopulationScore                 float64 `json:"PopulationScore"`
	WetlandLoss                     float64 `json:"WetlandLoss"`
	InadequatePlanning              float64 `json:"InadequatePlanning"`
	PoliticalFactors                float64 `json:"PoliticalFactors"`

	District  string    `json:"district"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// Scenario converts a validated request into an immutable Scenario.
// A missing timestamp defaults to now (normalized to UTC either way).
// Callers must validate the request first; nil indicators panic here by design
// because they indicate a validation bypass, not a client error.
func (r *ScenarioRequest) Scenario(now time.Time) *Scenario {
	ts := now
	if r.Timestamp != nil {
		ts = *r.Timestamp
	}
	return &Scenario{
		MonsoonIntensity:                *r.MonsoonIntensity,
		TopographyDrainage:              *r.TopographyDrainage,
		RiverManagement:                 *r.RiverManagement,
		Deforestation:                   *r.Deforestation,
		Urbanization:                    *r.Urbanization,
		ClimateChange:                   *r.ClimateChange,
		DamsQuality:                     *r.DamsQuality,
		Siltation:                       *r.Siltation,
		AgriculturalPractices:           *r.AgriculturalPractices,
		Encroachments:                   *r.Encroachments,
		IneffectiveDisasterPreparedness: *r.IneffectiveDisasterPreparedness,
		DrainageSystems:                 *r.DrainageSystems,
		CoastalVulnerability:            *r.CoastalVulnerability,
		Landslides:                      *r.Landslides,
		Watersheds:                      *r.Watersheds,
		DeterioratingInfrastructure:     *r.DeterioratingInfrastructure,
		PopulationScore:                 *r.PopulationScore,
		WetlandLoss:                     *r.WetlandLoss,
		InadequatePlanning:              *r.InadequatePlanning,
		PoliticalFactors:                *r.PoliticalFactors,
		District:                        r.District,
		State:                           r.State,
		Timestamp:                       ts.UTC(),
	}
}

// indicatorAccessors maps canonical indicator names to field readers.
// The feature vector builder resolves canonical artifact names through this
// table; an artifact name absent here is a fatal configuration error.
var indicatorAccessors = map[string]func(*Scenario) float64{
	"MonsoonIntensity":                func(s *Scenario) float64 { return s.MonsoonIntensity },
	"TopographyDrainage":              func(s *Scenario) float64 { return s.TopographyDrainage },
	"RiverManagement":                 func(s *Scenario) float64 { return s.RiverManagement },
	"Deforestation":                   func(s *Scenario) float64 { return s.Deforestation },
	"Urbanization":                    func(s *Scenario) float64 { return s.Urbanization },
	"ClimateChange":                   func(s *Scenario) float64 { return s.ClimateChange },
	"DamsQuality":                     func(s *Scenario) float64 { return s.DamsQuality },
	"Siltation":                       func(s *Scenario) float64 { return s.Siltation },
	"AgriculturalPractices":           func(s *Scenario) float64 { return s.AgriculturalPractices },
	"Encroachments":                   func(s *Scenario) float64 { return s.Encroachments },
	"IneffectiveDisasterPreparedness": func(s *Scenario) float64 { return s.IneffectiveDisasterPreparedness },
	"DrainageSystems":                 func(s *Scenario) float64 { return s.DrainageSystems },
	"CoastalVulnerability":            func(s *Scenario) float64 { return s.CoastalVulnerability },
	"Landslides":                      func(s *Scenario) float64 { return s.Landslides },
	"Watersheds":                      func(s *Scenario) float64 { return s.Watersheds },
	"DeterioratingInfrastructure":     func(s *Scenario) float64 { return s.DeterioratingInfrastructure },
	"PopulationScore":                 func(s *Scenario) float64 { return s.PopulationScore },
	"WetlandLoss":                     func(s *Scenario) float64 { return s.WetlandLoss },
	"InadequatePlanning":              func(s *Scenario) float64 { return s.InadequatePlanning },
	"PoliticalFactors":                func(s *Scenario) float64 { return s.PoliticalFactors },
}

// Indicator returns the value of the named indicator and whether the name is
// a known scenario field.
func (s *Scenario) Indicator(name string) (float64, bool) {
	accessor, ok := indicatorAccessors[name]
	if !ok {
		return 0, false
	}
	return accessor(s), true
}

// HasIndicator reports whether name is a known scenario indicator.
func HasIndicator(name string) bool {
	_, ok := indicatorAccessors[name]
	return ok
}

// ScenarioIndicators returns the canonical indicator names in schema
// declaration order. This is the default feature ordering used when no
// feature-name artifact overrides it.
func ScenarioIndicators() []string {
	return []string{
		"MonsoonIntensity",
		"TopographyDrainage",
		"RiverManagement",
		"Deforestation",
		"Urbanization",
		"ClimateChange",
		"DamsQuality",
		"Siltation",
		"AgriculturalPractices",
		"Encroachments",
		"IneffectiveDisasterPreparedness",
		"DrainageSystems",
		"CoastalVulnerability",
		"Landslides",
		"Watersheds",
		"DeterioratingInfrastructure",
		"PopulationScore",
		"WetlandLoss",
		"InadequatePlanning",
		"PoliticalFactors",
	}
}
