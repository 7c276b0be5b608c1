package captable

import (
	"captable/internal/model"
)

const (
	ESOPRowID   = "esop"
	ESOPRowName = "ESOP Pool"
)

// InvestorRowID is the id of the synthetic investor row for a round.
func InvestorRowID(roundID string) string {
	return "investor-" + roundID
}

// holdings is the running share register carried between rounds.
type holdings struct {
	totalShares float64
	founders    []OwnershipRow
	esop        OwnershipRow
	investors   []OwnershipRow

	// InitialEquity per founder; the founders' slice is always split by these
	weights []float64
}

// initialHoldings issues BaseShares: the pool gets its percentage and the
// founders split the remainder by InitialEquity, so equity left unallocated
// by the founders falls to them pro rata.
func initialHoldings(s model.Scenario) *holdings {
	h := &holdings{
		totalShares: BaseShares,
		esop: OwnershipRow{
			ID:              ESOPRowID,
			Name:            ESOPRowName,
			StakeholderType: model.StakeholderESOP,
			Shares:          s.ESOP.PoolSize / 100 * BaseShares,
		},
	}
	for _, f := range s.Founders {
		h.founders = append(h.founders, OwnershipRow{
			ID:              f.ID,
			Name:            f.Label(),
			StakeholderType: model.StakeholderFounder,
		})
		h.weights = append(h.weights, f.InitialEquity)
	}
	h.rebalanceFounders()
	return h
}

func (h *holdings) founderWeight() float64 {
	sum := 0.0
	for _, w := range h.weights {
		sum += w
	}
	return sum
}

func (h *holdings) investorShares() float64 {
	total := 0.0
	for _, inv := range h.investors {
		total += inv.Shares
	}
	return total
}

// investor returns the round's investor row, creating it on first use.
func (h *holdings) investor(r model.Round) *OwnershipRow {
	id := InvestorRowID(r.ID)
	for i := range h.investors {
		if h.investors[i].ID == id {
			return &h.investors[i]
		}
	}
	h.investors = append(h.investors, OwnershipRow{
		ID:              id,
		Name:            r.Label() + " Investor",
		StakeholderType: model.StakeholderInvestor,
	})
	return &h.investors[len(h.investors)-1]
}

func (h *holdings) founder(id string) *OwnershipRow {
	for i := range h.founders {
		if h.founders[i].ID == id {
			return &h.founders[i]
		}
	}
	return nil
}

// rebalanceFounders sets the founders' slice to total - pool - investors and
// splits it by InitialEquity. Shares a founder sold in an earlier secondary
// stay with the buyer; the remaining slice is still split by InitialEquity.
func (h *holdings) rebalanceFounders() {
	slice := h.totalShares - h.esop.Shares - h.investorShares()
	if slice < 0 {
		slice = 0
	}
	sum := h.founderWeight()
	if sum <= 0 {
		return
	}
	for i := range h.founders {
		h.founders[i].Shares = slice * h.weights[i] / sum
	}
}

// snapshot returns a fresh ownership table: founders, pool, then investors in round order.
func (h *holdings) snapshot() []OwnershipRow {
	rows := make([]OwnershipRow, 0, len(h.founders)+1+len(h.investors))
	rows = append(rows, h.founders...)
	rows = append(rows, h.esop)
	rows = append(rows, h.investors...)
	for i := range rows {
		if rows[i].Shares < 0 {
			rows[i].Shares = 0
		}
		if h.totalShares > 0 {
			rows[i].Percentage = rows[i].Shares / h.totalShares * 100
		}
	}
	return rows
}
