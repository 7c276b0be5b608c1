package captable

import "captable/internal/model"

// OwnershipRow is one stakeholder's position after a round.
// Percentage = Shares / TotalShares * 100.
type OwnershipRow struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	StakeholderType model.StakeholderType `json:"stakeholder_type"`
	Shares          float64               `json:"shares"`
	Percentage      float64               `json:"percentage"`
}

// ExitRow is an OwnershipRow with its share of the exit value.
// NetValue equals Value; there is no preference stack.
type ExitRow struct {
	OwnershipRow
	Value    float64 `json:"value"`
	NetValue float64 `json:"net_value"`
}

type ConvertibleStatus string

const (
	ConvertiblePending   ConvertibleStatus = "pending"
	ConvertibleConverted ConvertibleStatus = "converted"
)

// ConvertibleState tracks one SAFE. The conversion fields are set only once
// Status is ConvertibleConverted.
type ConvertibleState struct {
	RoundID   string            `json:"round_id"`
	RoundName string            `json:"round_name"`
	Amount    float64           `json:"amount"`
	Status    ConvertibleStatus `json:"status"`

	ConvertedInRoundID string  `json:"converted_in_round_id,omitempty"`
	CapPrice           float64 `json:"cap_price,omitempty"`
	DiscountPrice      float64 `json:"discount_price,omitempty"` // 0 when the SAFE has no discount
	ConversionPrice    float64 `json:"conversion_price,omitempty"`
	Shares             float64 `json:"shares,omitempty"`
}

// RoundResult captures what happened in one round.
type RoundResult struct {
	RoundID   string          `json:"round_id"`
	RoundName string          `json:"round_name"`
	RoundType model.RoundType `json:"round_type"`
	Order     int             `json:"order"`

	PreMoney   float64 `json:"pre_money"`
	PostMoney  float64 `json:"post_money"`
	SharePrice float64 `json:"share_price"` // estimate only for SAFE previews

	SharesIssued    float64 `json:"shares_issued"` // investor + converted SAFE shares
	ESOPSharesAdded float64 `json:"esop_shares_added"`
	SecondaryShares float64 `json:"secondary_shares"`
	TotalShares     float64 `json:"total_shares"`
	Dilution        float64 `json:"dilution"` // percent

	Conversions []ConvertibleState `json:"conversions,omitempty"`
	Ownership   []OwnershipRow     `json:"ownership"`
}

// Result is the full computed cap table for a scenario.
type Result struct {
	TotalShares      float64            `json:"total_shares"`
	RoundResults     []RoundResult      `json:"round_results"`
	CurrentOwnership []OwnershipRow     `json:"current_ownership"`
	ExitDistribution []ExitRow          `json:"exit_distribution"`
	Convertibles     []ConvertibleState `json:"convertibles"`
}

// TotalPercentage sums Percentage across rows.
func TotalPercentage(rows []OwnershipRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Percentage
	}
	return total
}

// FindRow returns the row with the given id.
func FindRow(rows []OwnershipRow, id string) (OwnershipRow, bool) {
	for _, r := range rows {
		if r.ID == id {
			return r, true
		}
	}
	return OwnershipRow{}, false
}
