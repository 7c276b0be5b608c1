package captable

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DistributeExit maps an ownership table to proceeds at exitValue.
func DistributeExit(ownership []OwnershipRow, exitValue float64) []ExitRow {
	exit := decimal.NewFromFloat(exitValue)
	out := make([]ExitRow, len(ownership))
	for i, row := range ownership {
		value := decimal.NewFromFloat(row.Percentage).Div(hundred).Mul(exit)
		out[i] = ExitRow{
			OwnershipRow: row,
			Value:        value.InexactFloat64(),
			NetValue:     value.InexactFloat64(),
		}
	}
	return out
}

// TotalExitValue sums Value across rows.
func TotalExitValue(rows []ExitRow) float64 {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.Value))
	}
	return total.InexactFloat64()
}
