package models

import "captable/internal/model"

// CalculateRequest is the body for POST /api/v1/captable/calculate and
// /api/v1/captable/validate.
type CalculateRequest struct {
	Scenario model.Scenario   `json:"scenario"`
	Options  CalculateOptions `json:"options,omitempty"`
}

// CalculateOptions trims the response.
type CalculateOptions struct {
	OmitRounds bool `json:"omit_rounds,omitempty"` // drop per-round tables
}

// CompareRequest runs several variations of a base scenario.
type CompareRequest struct {
	Base       model.Scenario      `json:"base"`
	Variations []ScenarioVariation `json:"variations" binding:"required,min=1"`
}

// ScenarioVariation overrides parts of the base scenario. Founders and
// rounds are upserted by id; omitted fields keep the base value.
type ScenarioVariation struct {
	Name      string            `json:"name" binding:"required"`
	Founders  []model.Founder   `json:"founders,omitempty"`
	ESOP      *model.ESOPConfig `json:"esop,omitempty"`
	Rounds    []model.Round     `json:"rounds,omitempty"`
	ExitValue *float64          `json:"exit_value,omitempty"`
}

// Apply returns base with the variation's overrides.
func (v ScenarioVariation) Apply(base model.Scenario) model.Scenario {
	out := base
	out.Name = v.Name
	for _, f := range v.Founders {
		out.Founders = model.UpsertFounder(out.Founders, f)
	}
	if v.ESOP != nil {
		out.ESOP = *v.ESOP
	}
	for _, r := range v.Rounds {
		out.Rounds = model.UpsertRound(out.Rounds, r)
	}
	if v.ExitValue != nil {
		out.ExitValue = *v.ExitValue
	}
	return out
}

// SaveScenarioRequest is the body for POST/PUT /api/v1/scenarios.
type SaveScenarioRequest struct {
	Scenario model.Scenario `json:"scenario"`
}
