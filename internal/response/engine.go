// Package response maps a risk band to a prioritized multi-agency playbook
// tuned for Indian disaster-management workflows.
package response

import (
	"floodwatch/internal/types"
)

// Population-density override: densely populated districts at High or Severe
// risk get a health-surveillance deployment appended to the base actions.
const densityOverrideThreshold = 70.0

// Engine recommends agency actions for a risk result. The playbook is
// read-only after construction; every call returns a fresh slice so callers
// cannot corrupt the shared catalog.
type Engine struct {
	playbook map[types.RiskBand][]types.ResponseAction
	override types.ResponseAction
}

// NewEngine builds the static playbook. Each band maps to two actions in
// escalating institutional order, from routine monitoring up to national
// emergency coordination.
func NewEngine() *Engine {
	return &Engine{
		playbook: map[types.RiskBand][]types.ResponseAction{
			types.BandLow: {
				{
					Agency:      "IMD",
					Priority:    "Routine",
					Description: "Continue synoptic monitoring and share 6-hourly advisories",
				},
				{
					Agency:      "State Water Resources",
					Priority:    "Routine",
					Description: "Audit local embankments; prep de-silting teams",
				},
			},
			types.BandModerate: {
				{
					Agency:      "SDMA",
					Priority:    "High",
					Description: "Activate district EOCs and ensure mock evacuation drill readiness",
				},
				{
					Agency:      "CWC",
					Priority:    "High",
					Description: "Increase telemetry frequency for upstream reservoirs",
				},
			},
			types.BandHigh: {
				{
					Agency:      "NDRF",
					Priority:    "Critical",
					Description: "Pre-position boats, divers, and medical teams within 2 hours",
				},
				{
					Agency:      "Ministry of Jal Shakti",
					Priority:    "Critical",
					Description: "Issue gate-operation advisories for interstate dams",
				},
			},
			types.BandSevere: {
				{
					Agency:      "Cabinet Committee on Security",
					Priority:    "Emergency",
					Description: "Coordinate airlift assets and inter-state resource pooling",
				},
				{
					Agency:      "NDMA",
					Priority:    "Emergency",
					Description: "Broadcast multi-lingual evacuation orders via SANCHAR network",
				},
			},
		},
		override: types.ResponseAction{
			Agency:      "MoHFW",
			Priority:    "Emergency",
			Description: "Deploy mobile health units and epidemic surveillance teams",
		},
	}
}

// Recommend returns the ordered action list for a risk result: the band's
// base actions in table order, followed by the population-density override
// when it applies. The returned slice is a copy.
func (e *Engine) Recommend(result *types.FloodRiskResult) []types.ResponseAction {
	base := e.playbook[result.Band]
	actions := make([]types.ResponseAction, len(base), len(base)+1)
	copy(actions, base)

	if result.Scenario.PopulationScore > densityOverrideThreshold && result.Band.AtLeast(types.BandHigh) {
		actions = append(actions, e.override)
	}
	return actions
}
