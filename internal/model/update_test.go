package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpsertFounder(t *testing.T) {
	founders := []Founder{{ID: "a", Name: "Alice", InitialEquity: 50}}

	updated := UpsertFounder(founders, Founder{ID: "a", Name: "Alice", InitialEquity: 40})
	assert.Equal(t, 40.0, updated[0].InitialEquity)
	assert.Equal(t, 50.0, founders[0].InitialEquity, "input must not change")

	added := UpsertFounder(updated, Founder{ID: "b", Name: "Bob", InitialEquity: 20})
	assert.Len(t, added, 2)
	assert.Len(t, updated, 1)
}

func TestRemoveFounder(t *testing.T) {
	founders := []Founder{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, []Founder{{ID: "b"}}, RemoveFounder(founders, "a"))
	assert.Len(t, founders, 2)
}

func TestUpsertAndRemoveRound(t *testing.T) {
	rounds := []Round{{ID: "seed", Order: 1}}
	rounds = UpsertRound(rounds, Round{ID: "a", Order: NextRoundOrder(rounds)})
	assert.Equal(t, 2, rounds[1].Order)

	rounds = UpsertRound(rounds, Round{ID: "seed", Order: 5})
	assert.Equal(t, 5, rounds[0].Order)
	assert.Len(t, rounds, 2)

	rounds = RemoveRound(rounds, "seed")
	assert.Equal(t, []Round{{ID: "a", Order: 2}}, rounds)
}

func TestSortedRounds(t *testing.T) {
	rounds := []Round{{ID: "c", Order: 3}, {ID: "a", Order: 1}, {ID: "b1", Order: 2}, {ID: "b2", Order: 2}}
	sorted := SortedRounds(rounds)

	var ids []string
	for _, r := range sorted {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)
	assert.Equal(t, "c", rounds[0].ID)
}

func TestRoundDerivedValues(t *testing.T) {
	r := Round{Amount: 5, Priced: &PricedTerms{PreMoney: 20}}
	assert.Equal(t, 25.0, r.PostMoney())
	assert.Zero(t, Round{}.ValuationCap())
	assert.Equal(t, "id", Round{ID: "id"}.Label())
	assert.True(t, RoundPriced.Valid())
	assert.False(t, RoundType("x").Valid())
}

func TestScenarioClone(t *testing.T) {
	s := Scenario{
		ID:       "s",
		Founders: []Founder{{ID: "a", Name: "Alice", InitialEquity: 60}},
		Rounds: []Round{{
			ID:             "r",
			Type:           RoundPriced,
			Amount:         1,
			Priced:         &PricedTerms{PreMoney: 10},
			SAFE:           &SAFETerms{ValuationCap: 5},
			ESOPAdjustment: &ESOPAdjustment{Expand: true, NewPoolSize: 20},
			Secondary: &SecondaryConfig{Enabled: true, Transactions: []SecondaryTransaction{
				{SellerID: "a", AmountType: SecondaryShares, Amount: 10},
			}},
		}},
	}

	c := s.Clone()
	assert.Equal(t, s, c)

	c.Founders[0].Name = "x"
	c.Rounds[0].Priced.PreMoney = 0
	c.Rounds[0].SAFE.ValuationCap = 0
	c.Rounds[0].ESOPAdjustment.NewPoolSize = 0
	c.Rounds[0].Secondary.Transactions[0].Amount = 0

	assert.Equal(t, "Alice", s.Founders[0].Name)
	assert.Equal(t, 10.0, s.Rounds[0].Priced.PreMoney)
	assert.Equal(t, 5.0, s.Rounds[0].SAFE.ValuationCap)
	assert.Equal(t, 20.0, s.Rounds[0].ESOPAdjustment.NewPoolSize)
	assert.Equal(t, 10.0, s.Rounds[0].Secondary.Transactions[0].Amount)
}
