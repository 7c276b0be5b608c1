package analysis

import (
	"captable/internal/captable"
	"captable/internal/model"
)

// Summary is a scenario-level rollup of a computed cap table, suitable for
// side-by-side comparison of what-if variations.
type Summary struct {
	ScenarioID   string `json:"scenario_id"`
	ScenarioName string `json:"scenario_name"`

	Rounds      int     `json:"rounds"`
	TotalShares float64 `json:"total_shares"`
	TotalRaised float64 `json:"total_raised"`

	FounderPercentage  float64 `json:"founder_percentage"`
	ESOPPercentage     float64 `json:"esop_percentage"`
	InvestorPercentage float64 `json:"investor_percentage"`

	// Proceeds at the scenario's exit value.
	ExitValue       float64 `json:"exit_value"`
	FounderProceeds float64 `json:"founder_proceeds"`

	PendingSAFEs int `json:"pending_safes"`
	// LastPostMoney is the post-money of the final round, 0 with no rounds.
	LastPostMoney float64 `json:"last_post_money"`
}

func Summarize(s model.Scenario, res *captable.Result) Summary {
	out := Summary{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		Rounds:       len(res.RoundResults),
		TotalShares:  res.TotalShares,
		ExitValue:    s.ExitValue,
	}
	for _, r := range s.Rounds {
		out.TotalRaised += r.Amount
	}
	for _, row := range res.CurrentOwnership {
		switch row.StakeholderType {
		case model.StakeholderFounder:
			out.FounderPercentage += row.Percentage
		case model.StakeholderESOP:
			out.ESOPPercentage += row.Percentage
		case model.StakeholderInvestor:
			out.InvestorPercentage += row.Percentage
		}
	}
	for _, row := range res.ExitDistribution {
		if row.StakeholderType == model.StakeholderFounder {
			out.FounderProceeds += row.Value
		}
	}
	for _, c := range res.Convertibles {
		if c.Status == captable.ConvertiblePending {
			out.PendingSAFEs++
		}
	}
	if n := len(res.RoundResults); n > 0 {
		out.LastPostMoney = res.RoundResults[n-1].PostMoney
	}
	return out
}
