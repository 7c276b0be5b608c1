package analysis

import (
	"context"

	"captable/internal/captable"
	"captable/internal/model"

	"golang.org/x/sync/errgroup"
)

// MaxParallel bounds how many variations are calculated at once.
const MaxParallel = 4

type Calculator interface {
	Validate(s model.Scenario) []string
	Calculate(s model.Scenario) (*captable.Result, error)
}

// Comparison is the outcome for one scenario variation. Exactly one of
// Summary (with Result) or Violations/Error is meaningful.
type Comparison struct {
	Label      string           `json:"label"`
	Summary    Summary          `json:"summary"`
	Result     *captable.Result `json:"result,omitempty"`
	Violations []string         `json:"violations,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Compare calculates every scenario concurrently. A scenario that fails
// validation or calculation is reported in its own Comparison; only context
// cancellation aborts the whole comparison. Output order matches input.
func Compare(ctx context.Context, calc Calculator, scenarios []model.Scenario) ([]Comparison, error) {
	out := make([]Comparison, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallel)

	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = compareOne(calc, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func compareOne(calc Calculator, s model.Scenario) Comparison {
	c := Comparison{Label: s.Name}
	if c.Label == "" {
		c.Label = s.ID
	}
	if violations := calc.Validate(s); len(violations) > 0 {
		c.Violations = violations
		c.Error = "scenario invalid"
		return c
	}
	res, err := calc.Calculate(s)
	if err != nil {
		c.Error = err.Error()
		return c
	}
	c.Result = res
	c.Summary = Summarize(s, res)
	return c
}
