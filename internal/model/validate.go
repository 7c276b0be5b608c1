package model

import "fmt"

const (
	// EquityEpsilon is the slack allowed when comparing founder equity to the pool ceiling.
	EquityEpsilon = 0.01
	MaxPoolSize   = 50.0
	MaxDiscount   = 99.0
)

// Validate checks structural and arithmetic preconditions on a scenario.
// Every check runs; the result is empty when the scenario can be calculated.
func Validate(s Scenario) []string {
	var violations []string

	ceiling := 100 - s.ESOP.PoolSize
	total := s.TotalFounderEquity()
	if total > ceiling+EquityEpsilon {
		violations = append(violations, fmt.Sprintf(
			"Total founder equity (%.2f%%) exceeds the maximum of %.2f%% (100%% minus %.2f%% ESOP pool)",
			total, ceiling, s.ESOP.PoolSize))
	}
	for _, f := range s.Founders {
		if f.InitialEquity <= 0 {
			violations = append(violations, fmt.Sprintf("Founder %q must have initial equity greater than 0 (got %.2f%%)", f.Label(), f.InitialEquity))
		}
	}
	if s.ESOP.PoolSize < 0 || s.ESOP.PoolSize > MaxPoolSize {
		violations = append(violations, fmt.Sprintf("ESOP pool size must be between 0%% and %.0f%% (got %.2f%%)", MaxPoolSize, s.ESOP.PoolSize))
	}
	for _, r := range s.Rounds {
		if r.Amount <= 0 {
			violations = append(violations, fmt.Sprintf("Round %q must have an investment amount greater than 0", r.Label()))
		}
		switch r.Type {
		case RoundPriced:
			if r.PreMoney() <= 0 {
				violations = append(violations, fmt.Sprintf("Priced round %q requires a pre-money valuation greater than 0", r.Label()))
			}
		case RoundSAFE:
			if r.ValuationCap() <= 0 {
				violations = append(violations, fmt.Sprintf("SAFE round %q requires a valuation cap greater than 0", r.Label()))
			}
		}
	}

	violations = append(violations, validateStructure(s)...)
	return violations
}

// validateStructure covers the preconditions the engine relies on beyond the form-level checks.
func validateStructure(s Scenario) []string {
	var violations []string

	if len(s.Founders) == 0 {
		violations = append(violations, "At least one founder is required")
	}
	if s.ExitValue < 0 {
		violations = append(violations, fmt.Sprintf("Exit value must be 0 or greater (got %.2f)", s.ExitValue))
	}

	seenIDs := map[string]bool{}
	seenOrders := map[int]string{}
	for _, r := range s.Rounds {
		if r.ID == "" {
			violations = append(violations, fmt.Sprintf("Round %q is missing an id", r.Label()))
		} else if seenIDs[r.ID] {
			violations = append(violations, fmt.Sprintf("Round id %q is used more than once", r.ID))
		}
		seenIDs[r.ID] = true

		if prev, ok := seenOrders[r.Order]; ok {
			violations = append(violations, fmt.Sprintf("Rounds %q and %q share order %d", prev, r.Label(), r.Order))
		} else {
			seenOrders[r.Order] = r.Label()
		}

		if !r.Type.Valid() {
			violations = append(violations, fmt.Sprintf("Round %q has unknown type %q", r.Label(), r.Type))
		}
		if r.Type == RoundSAFE && r.SAFE != nil && (r.SAFE.Discount < 0 || r.SAFE.Discount > MaxDiscount) {
			violations = append(violations, fmt.Sprintf("SAFE round %q discount must be between 0%% and %.0f%%", r.Label(), MaxDiscount))
		}
		if adj := r.ESOPAdjustment; adj != nil && adj.Expand && (adj.NewPoolSize <= 0 || adj.NewPoolSize >= 100) {
			violations = append(violations, fmt.Sprintf("Round %q ESOP target must be greater than 0%% and below 100%%", r.Label()))
		}
		if sec := r.Secondary; sec != nil && sec.Enabled {
			for i, tx := range sec.Transactions {
				if tx.Amount < 0 {
					violations = append(violations, fmt.Sprintf("Round %q secondary transaction %d has a negative amount", r.Label(), i+1))
				}
				if tx.AmountType != SecondaryPercentage && tx.AmountType != SecondaryShares {
					violations = append(violations, fmt.Sprintf("Round %q secondary transaction %d has unknown amount type %q", r.Label(), i+1, tx.AmountType))
				}
			}
		}
	}
	return violations
}
