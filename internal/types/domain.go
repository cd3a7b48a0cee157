package types

import (
	"math"
	"time"
)

// RiskBand is the qualitative flood-risk tier derived from a continuous score.
// Bands are totally ordered by severity: Low < Moderate < High < Severe.
type RiskBand string

const (
	BandLow      RiskBand = "Low"
	BandModerate RiskBand = "Moderate"
	BandHigh     RiskBand = "High"
	BandSevere   RiskBand = "Severe"
)

// bandInterval maps a band to its half-open score interval [Low, High).
type bandInterval struct {
	Band RiskBand
	Low  float64
	High float64
}

// bandIntervals is the ordered classification table. The Severe upper bound
// extends past 1.0 to absorb floating-point overshoot from the regression
// backend; anything beyond the table still classifies Severe.
var bandIntervals = []bandInterval{
	{BandLow, 0, 0.25},
	{BandModerate, 0.25, 0.50},
	{BandHigh, 0.50, 0.75},
	{BandSevere, 0.75, 1.01},
}

// BandForScore classifies a score into a RiskBand using half-open intervals.
// Scores outside every interval (including >= 1.01) classify Severe as a
// safety default.
func BandForScore(score float64) RiskBand {
	for _, iv := range bandIntervals {
		if score >= iv.Low && score < iv.High {
			return iv.Band
		}
	}
	return BandSevere
}

// AtLeast reports whether b is at or above the severity of other.
func (b RiskBand) AtLeast(other RiskBand) bool {
	return b.severity() >= other.severity()
}

func (b RiskBand) severity() int {
	switch b {
	case BandLow:
		return 0
	case BandModerate:
		return 1
	case BandHigh:
		return 2
	case BandSevere:
		return 3
	}
	return -1
}

// Driver is an input indicator judged to contribute most to the current
// score. Score is the scenario's raw value for the feature; Impact is the
// importance-weighted distance from the neutral midpoint.
type Driver struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
	Impact  float64 `json:"impact"`
}

// FloodRiskResult is the immutable outcome of one scoring call.
type FloodRiskResult struct {
	Score        float64
	Band         RiskBand
	Confidence   float64
	FeatureOrder []string
	Scenario     *Scenario
	Drivers      []Driver
}

// RiskPayload is the outbound representation of a FloodRiskResult.
// Score and confidence are rounded to two decimals; the timestamp is
// serialized as ISO-8601.
type RiskPayload struct {
	Score      float64  `json:"score"`
	Band       RiskBand `json:"band"`
	Confidence float64  `json:"confidence"`
	District   string   `json:"district"`
	State      string   `json:"state"`
	Timestamp  string   `json:"timestamp"`
	Drivers    []Driver `json:"drivers"`
}

// Payload builds the outbound DTO for this result.
func (r *FloodRiskResult) Payload() RiskPayload {
	drivers := r.Drivers
	if drivers == nil {
		drivers = []Driver{}
	}
	return RiskPayload{
		Score:      Round2(r.Score),
		Band:       r.Band,
		Confidence: Round2(r.Confidence),
		District:   r.Scenario.District,
		State:      r.Scenario.State,
		Timestamp:  r.Scenario.Timestamp.Format(time.RFC3339),
		Drivers:    drivers,
	}
}

// ResponseAction is one recommended agency action from the playbook catalog.
type ResponseAction struct {
	Agency      string `json:"agency"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// FloodAssessment pairs a risk result with the collapsed agency action map.
// One assessment is produced per Assess call.
type FloodAssessment struct {
	ID      string
	Risk    *FloodRiskResult
	Actions map[string]string
}

// AssessmentPayload is the outbound and persisted representation of an
// assessment.
type AssessmentPayload struct {
	Risk    RiskPayload       `json:"risk"`
	Actions map[string]string `json:"actions"`
}

// Payload builds the outbound DTO for this assessment.
func (a *FloodAssessment) Payload() AssessmentPayload {
	return AssessmentPayload{
		Risk:    a.Risk.Payload(),
		Actions: a.Actions,
	}
}

// HistoryEntry is the lightweight projection of an assessment kept in the
// in-process ledger and surfaced by history queries.
type HistoryEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	District   string    `json:"district"`
	State      string    `json:"state"`
	Score      float64   `json:"score"`
	Band       RiskBand  `json:"band"`
	Confidence float64   `json:"confidence"`
}

// Round2 rounds to two decimal places for outbound payloads.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
