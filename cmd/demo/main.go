package main

import (
	"fmt"

	"captable/internal/captable"
	"captable/internal/config"
	"captable/internal/model"

	"github.com/spf13/pflag"
)

// Demo:
// - Build the canonical two-founder cap table (60% / 25%, 15% pool)
// - Run a plain Series A, a Series A with a pre-money pool refresh, and a
//   SAFE converting into the Series A
// - Print each round and the resulting ownership
func main() {
	scenarioPath := pflag.String("scenario", "", "Optional: also run this scenario file")
	outCSV := pflag.String("out", "", "Optional path to write the last scenario's round CSV")
	pflag.Parse()

	scenarios := []model.Scenario{scenarioA(), scenarioB(), scenarioC()}
	if *scenarioPath != "" {
		s, err := config.Load(*scenarioPath)
		if err != nil {
			panic(err)
		}
		scenarios = append(scenarios, *s)
	}

	engine := captable.New()
	var last *captable.Result
	for _, s := range scenarios {
		res, err := engine.Calculate(s)
		if err != nil {
			panic(err)
		}
		last = res

		fmt.Printf("== %s\n", s.Name)
		for _, r := range res.RoundResults {
			fmt.Printf(
				"%-14s price=%8.4f  issued=%12.0f  pool+=%11.0f  total=%12.0f  dilution=%6.2f%%\n",
				r.RoundName,
				r.SharePrice,
				r.SharesIssued,
				r.ESOPSharesAdded,
				r.TotalShares,
				r.Dilution,
			)
			for _, c := range r.Conversions {
				fmt.Printf("  %s converts at %.4f (cap %.4f) -> %.0f shares\n", c.RoundName, c.ConversionPrice, c.CapPrice, c.Shares)
			}
		}
		for _, row := range res.CurrentOwnership {
			fmt.Printf("  %-20s %6.2f%%  $%14.2f\n", row.Name, row.Percentage, exitValue(res, row.ID))
		}
		fmt.Printf("  %-20s %6.2f%%\n\n", "total", captable.TotalPercentage(res.CurrentOwnership))
	}

	if *outCSV != "" && last != nil {
		if err := captable.WriteRoundsCSV(*outCSV, last.RoundResults); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote CSV: %s\n", *outCSV)
	}
}

func exitValue(res *captable.Result, id string) float64 {
	for _, row := range res.ExitDistribution {
		if row.ID == id {
			return row.Value
		}
	}
	return 0
}

func baseScenario(name string) model.Scenario {
	return model.Scenario{
		ID:   name,
		Name: name,
		Founders: []model.Founder{
			{ID: "founder-1", Name: "Founder 1", InitialEquity: 60},
			{ID: "founder-2", Name: "Founder 2", InitialEquity: 25},
		},
		ESOP:      model.ESOPConfig{PoolSize: 15},
		ExitValue: 100_000_000,
	}
}

func seriesA(order int) model.Round {
	return model.Round{
		ID:     "series-a",
		Name:   "Series A",
		Type:   model.RoundPriced,
		Amount: 5_000_000,
		Order:  order,
		Priced: &model.PricedTerms{PreMoney: 20_000_000},
	}
}

func scenarioA() model.Scenario {
	s := baseScenario("A: Series A")
	s.Rounds = []model.Round{seriesA(1)}
	return s
}

func scenarioB() model.Scenario {
	s := baseScenario("B: Series A, 20% pre-money pool")
	r := seriesA(1)
	r.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: 20, IsPreMoney: true}
	s.Rounds = []model.Round{r}
	return s
}

func scenarioC() model.Scenario {
	s := baseScenario("C: SAFE into Series A")
	s.Rounds = []model.Round{
		{
			ID:     "pre-seed",
			Name:   "Pre-Seed SAFE",
			Type:   model.RoundSAFE,
			Amount: 1_000_000,
			Order:  1,
			SAFE:   &model.SAFETerms{ValuationCap: 10_000_000},
		},
		seriesA(2),
	}
	return s
}
