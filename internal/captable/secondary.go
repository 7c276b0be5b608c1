package captable

import (
	"math"

	"captable/internal/model"
)

// applySecondary moves founder shares to the round's investor row.
// Total shares are unchanged. Unknown sellers are skipped. It returns the
// number of shares transferred.
func (h *holdings) applySecondary(r model.Round) float64 {
	sec := r.Secondary
	if sec == nil || !sec.Enabled {
		return 0
	}
	moved := 0.0
	for _, tx := range sec.Transactions {
		seller := h.founder(tx.SellerID)
		if seller == nil {
			continue
		}
		sold := SharesSold(tx, seller.Shares)
		if sold <= 0 {
			continue
		}
		seller.Shares -= sold
		h.investor(r).Shares += sold
		moved += sold
	}
	return moved
}

// SharesSold resolves a transaction against the seller's current holding,
// clamped to [0, held].
func SharesSold(tx model.SecondaryTransaction, held float64) float64 {
	var sold float64
	switch tx.AmountType {
	case model.SecondaryPercentage:
		sold = held * tx.Amount / 100
	case model.SecondaryShares:
		sold = tx.Amount
	}
	return math.Max(0, math.Min(sold, held))
}
