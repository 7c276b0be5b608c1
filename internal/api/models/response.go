package models

import (
	"time"

	"captable/internal/analysis"
	"captable/internal/captable"
	"captable/internal/model"
	"captable/internal/store"
)

// CalculateResponse is the computed cap table plus its rollup.
type CalculateResponse struct {
	Summary analysis.Summary `json:"summary"`
	Result  *captable.Result `json:"result"`
}

// ValidateResponse lists every violation; empty means valid.
type ValidateResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

// CompareResponse holds one entry per variation, ranked by founder proceeds.
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank       int              `json:"rank"`
	Name       string           `json:"name"`
	Summary    analysis.Summary `json:"summary"`
	Violations []string         `json:"violations,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// ScenarioResponse is a stored scenario with its metadata.
type ScenarioResponse struct {
	Scenario  model.Scenario `json:"scenario"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewScenarioResponse(rec *store.Record) ScenarioResponse {
	return ScenarioResponse{
		Scenario:  rec.Scenario,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// ScenarioListResponse is the body of GET /api/v1/scenarios.
type ScenarioListResponse struct {
	Scenarios []store.Summary `json:"scenarios"`
}

// ShareLinkResponse is the body of POST /api/v1/scenarios/:id/share.
type ShareLinkResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SharedScenarioResponse is a shared scenario and its computed cap table.
// Result is nil when the stored scenario no longer validates.
type SharedScenarioResponse struct {
	Scenario   model.Scenario   `json:"scenario"`
	Result     *captable.Result `json:"result,omitempty"`
	Violations []string         `json:"violations,omitempty"`
}

// ExampleInfo describes a bundled example scenario file.
type ExampleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Founders int    `json:"founders"`
	Rounds   int    `json:"rounds"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
