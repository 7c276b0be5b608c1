package model

// StakeholderType classifies an ownership row.
// Keep these values stable; they are intended for CSV and JSON output.
type StakeholderType string

const (
	StakeholderFounder  StakeholderType = "founder"
	StakeholderInvestor StakeholderType = "investor"
	StakeholderESOP     StakeholderType = "esop"
)

// RoundType tags which terms a Round carries.
type RoundType string

const (
	RoundSAFE   RoundType = "safe"
	RoundPriced RoundType = "priced"
)

func (t RoundType) Valid() bool {
	return t == RoundSAFE || t == RoundPriced
}

// SecondaryTiming is recorded on a round's secondary config. Transfers are
// always applied after primary issuance.
type SecondaryTiming string

const (
	SecondaryBefore SecondaryTiming = "before"
	SecondaryAfter  SecondaryTiming = "after"
)

// SecondaryAmountType says how SecondaryTransaction.Amount is read.
type SecondaryAmountType string

const (
	SecondaryPercentage SecondaryAmountType = "percentage"
	SecondaryShares     SecondaryAmountType = "shares"
)
