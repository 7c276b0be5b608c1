package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"captable/internal/analysis"
	"captable/internal/api/models"
	"captable/internal/captable"
	"captable/internal/metrics"
	"captable/internal/model"

	"github.com/gin-gonic/gin"
)

// CapTableHandler serves stateless calculation requests.
type CapTableHandler struct {
	engine *captable.Engine
	log    *slog.Logger
}

func NewCapTableHandler(engine *captable.Engine, log *slog.Logger) *CapTableHandler {
	return &CapTableHandler{engine: engine, log: log}
}

// Validate handles POST /api/v1/captable/validate
func (h *CapTableHandler) Validate(c *gin.Context) {
	var req models.CalculateRequest
	if !bindJSON(c, &req) {
		return
	}
	violations := h.engine.Validate(req.Scenario)
	if violations == nil {
		violations = []string{}
	}
	c.JSON(http.StatusOK, models.ValidateResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// Calculate handles POST /api/v1/captable/calculate
func (h *CapTableHandler) Calculate(c *gin.Context) {
	var req models.CalculateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, ok := h.calculate(c, req.Scenario)
	if !ok {
		return
	}
	summary := analysis.Summarize(req.Scenario, result)
	if req.Options.OmitRounds {
		result.RoundResults = nil
	}
	c.JSON(http.StatusOK, models.CalculateResponse{Summary: summary, Result: result})
}

// calculate runs the validation gate and the engine, writing the error
// response itself when either fails.
func (h *CapTableHandler) calculate(c *gin.Context, s model.Scenario) (*captable.Result, bool) {
	start := time.Now()
	if violations := h.engine.Validate(s); len(violations) > 0 {
		metrics.RecordCalculation(time.Since(start), len(s.Rounds), "invalid")
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_SCENARIO",
				Message: "scenario has validation errors",
				Details: map[string]any{"violations": violations},
			},
		})
		return nil, false
	}

	result, err := h.engine.Calculate(s)
	if err != nil {
		metrics.RecordCalculation(time.Since(start), len(s.Rounds), "error")
		h.log.Error("calculation failed", "scenario_id", s.ID, "error", err)
		detail := models.ErrorDetail{Code: "CALCULATION_ERROR", Message: err.Error()}
		var calcErr *captable.CalculationError
		if errors.As(err, &calcErr) && calcErr.RoundID != "" {
			detail.Details = map[string]any{
				"round_id":   calcErr.RoundID,
				"round_name": calcErr.RoundName,
			}
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: detail})
		return nil, false
	}
	metrics.RecordCalculation(time.Since(start), len(s.Rounds), "success")
	return result, true
}

// Compare handles POST /api/v1/captable/compare
func (h *CapTableHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if !bindJSON(c, &req) {
		return
	}

	scenarios := make([]model.Scenario, len(req.Variations))
	for i, v := range req.Variations {
		scenarios[i] = v.Apply(req.Base)
	}

	start := time.Now()
	comparisons, err := analysis.Compare(c.Request.Context(), h.engine, scenarios)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, models.NewError("COMPARE_ABORTED", err.Error()))
		return
	}
	h.log.Debug("compared scenarios", "variations", len(scenarios), "duration", time.Since(start))

	ranked := analysis.RankByFounderProceeds(comparisons)
	out := make([]models.ComparisonResult, len(ranked))
	for i, cmp := range ranked {
		out[i] = models.ComparisonResult{
			Rank:       i + 1,
			Name:       cmp.Label,
			Summary:    cmp.Summary,
			Violations: cmp.Violations,
			Error:      cmp.Error,
		}
	}
	c.JSON(http.StatusOK, models.CompareResponse{Comparison: out})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return false
	}
	return true
}
