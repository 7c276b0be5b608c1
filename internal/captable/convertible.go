package captable

import (
	"math"

	"captable/internal/model"
)

// convertibles tracks every SAFE seen so far, in processing order.
type convertibles struct {
	states []*ConvertibleState
}

func (c *convertibles) add(r model.Round) {
	c.states = append(c.states, &ConvertibleState{
		RoundID:   r.ID,
		RoundName: r.Label(),
		Amount:    r.Amount,
		Status:    ConvertiblePending,
	})
}

func (c *convertibles) pending() []*ConvertibleState {
	var out []*ConvertibleState
	for _, s := range c.states {
		if s.Status == ConvertiblePending {
			out = append(out, s)
		}
	}
	return out
}

func (c *convertibles) snapshot() []ConvertibleState {
	out := make([]ConvertibleState, len(c.states))
	for i, s := range c.states {
		out[i] = *s
	}
	return out
}

// ConversionPrice is the better (lower) of the cap price and the discounted
// round price. A zero discount means the cap price applies.
func ConversionPrice(valuationCap, discount, preConversionShares, roundSharePrice float64) (capPrice, discountPrice, price float64) {
	capPrice = valuationCap / preConversionShares
	price = capPrice
	if discount > 0 {
		discountPrice = roundSharePrice * (1 - discount/100)
		price = math.Min(capPrice, discountPrice)
	}
	return capPrice, discountPrice, price
}

// convert resolves every pending SAFE against the triggering priced round.
// terms maps SAFE round id to its terms.
func (c *convertibles) convert(trigger model.Round, terms map[string]model.SAFETerms, preConversionShares, sharePrice float64) ([]ConvertibleState, float64, error) {
	var converted []ConvertibleState
	total := 0.0
	for _, s := range c.pending() {
		t, ok := terms[s.RoundID]
		if !ok || t.ValuationCap <= 0 {
			return nil, 0, &CalculationError{RoundID: s.RoundID, RoundName: s.RoundName, Reason: "SAFE has no valuation cap"}
		}
		capPrice, discountPrice, price := ConversionPrice(t.ValuationCap, t.Discount, preConversionShares, sharePrice)
		if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			return nil, 0, &CalculationError{RoundID: s.RoundID, RoundName: s.RoundName, Reason: "SAFE conversion price is not positive"}
		}
		s.Status = ConvertibleConverted
		s.ConvertedInRoundID = trigger.ID
		s.CapPrice = capPrice
		s.DiscountPrice = discountPrice
		s.ConversionPrice = price
		s.Shares = s.Amount / price
		total += s.Shares
		converted = append(converted, *s)
	}
	return converted, total, nil
}
