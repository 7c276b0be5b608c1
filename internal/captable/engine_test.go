package captable

import (
	"errors"
	"testing"

	"captable/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedScenario() model.Scenario {
	return model.Scenario{
		ID:   "seed",
		Name: "Seed",
		Founders: []model.Founder{
			{ID: "alice", Name: "Alice", InitialEquity: 60},
			{ID: "bob", Name: "Bob", InitialEquity: 25},
		},
		ESOP:      model.ESOPConfig{PoolSize: 15},
		ExitValue: 100_000_000,
	}
}

func pricedRound(id string, order int, amount, preMoney float64) model.Round {
	return model.Round{
		ID:     id,
		Name:   id,
		Type:   model.RoundPriced,
		Amount: amount,
		Order:  order,
		Priced: &model.PricedTerms{PreMoney: preMoney},
	}
}

func safeRound(id string, order int, amount, valuationCap, discount float64) model.Round {
	return model.Round{
		ID:     id,
		Name:   id,
		Type:   model.RoundSAFE,
		Amount: amount,
		Order:  order,
		SAFE:   &model.SAFETerms{ValuationCap: valuationCap, Discount: discount},
	}
}

func calculate(t *testing.T, s model.Scenario) *Result {
	t.Helper()
	require.Empty(t, model.Validate(s))
	res, err := New().Calculate(s)
	require.NoError(t, err)
	return res
}

func percentageOf(t *testing.T, rows []OwnershipRow, id string) float64 {
	t.Helper()
	row, ok := FindRow(rows, id)
	require.True(t, ok, "row %s not found", id)
	return row.Percentage
}

func TestCalculate_NoRoundsUsesInitialAllocation(t *testing.T) {
	res := calculate(t, seedScenario())

	assert.Empty(t, res.RoundResults)
	assert.InDelta(t, BaseShares, res.TotalShares, 1e-6)
	assert.InDelta(t, 60, percentageOf(t, res.CurrentOwnership, "alice"), 1e-9)
	assert.InDelta(t, 25, percentageOf(t, res.CurrentOwnership, "bob"), 1e-9)
	assert.InDelta(t, 15, percentageOf(t, res.CurrentOwnership, ESOPRowID), 1e-9)
	assert.InDelta(t, 60_000_000, res.ExitDistribution[0].Value, 1e-6)
}

func TestCalculate_SinglePricedRound(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{pricedRound("series-a", 1, 5_000_000, 20_000_000)}

	res := calculate(t, s)
	require.Len(t, res.RoundResults, 1)
	r := res.RoundResults[0]

	assert.InDelta(t, 2, r.SharePrice, 1e-9)
	assert.InDelta(t, 2_500_000, r.SharesIssued, 1e-6)
	assert.InDelta(t, 12_500_000, r.TotalShares, 1e-6)
	assert.InDelta(t, 20, r.Dilution, 1e-9)
	assert.InDelta(t, 25_000_000, r.PostMoney, 1e-6)
	assert.InDelta(t, 48, percentageOf(t, r.Ownership, "alice"), 0.01)
	assert.InDelta(t, 20, percentageOf(t, r.Ownership, "bob"), 0.01)
	assert.InDelta(t, 20, percentageOf(t, r.Ownership, InvestorRowID("series-a")), 0.01)

	inv, ok := FindRow(r.Ownership, InvestorRowID("series-a"))
	require.True(t, ok)
	assert.Equal(t, "series-a Investor", inv.Name)
	assert.Equal(t, model.StakeholderInvestor, inv.StakeholderType)
}

func TestCalculate_PreMoneyPoolExpansion(t *testing.T) {
	s := seedScenario()
	r := pricedRound("series-a", 1, 5_000_000, 20_000_000)
	r.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: 20, IsPreMoney: true}
	s.Rounds = []model.Round{r}

	res := calculate(t, s)
	got := res.RoundResults[0]

	assert.InDelta(t, 12_500_000, got.TotalShares-got.SharesIssued, 1e-6)
	assert.InDelta(t, 1.6, got.SharePrice, 1e-9)
	assert.InDelta(t, 3_125_000, got.SharesIssued, 1e-6)
	assert.InDelta(t, 2_500_000, got.ESOPSharesAdded, 1e-6)
	assert.InDelta(t, 16, percentageOf(t, got.Ownership, ESOPRowID), 0.01)
	assert.InDelta(t, 100, TotalPercentage(got.Ownership), 0.1)

	// founders stay in their 60:25 ratio
	alice := percentageOf(t, got.Ownership, "alice")
	bob := percentageOf(t, got.Ownership, "bob")
	assert.InDelta(t, 60.0/25.0, alice/bob, 1e-9)
}

func TestCalculate_PostMoneyPoolTopUp(t *testing.T) {
	s := seedScenario()
	r := pricedRound("series-a", 1, 5_000_000, 20_000_000)
	r.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: 20, IsPreMoney: false}
	s.Rounds = []model.Round{r}

	res := calculate(t, s)
	got := res.RoundResults[0]

	assert.InDelta(t, 20, percentageOf(t, got.Ownership, ESOPRowID), 1e-6)
	assert.InDelta(t, 2, got.SharePrice, 1e-9)
	assert.InDelta(t, 2_500_000, got.SharesIssued, 1e-6)
	assert.Greater(t, got.ESOPSharesAdded, 0.0)
	assert.InDelta(t, 100, TotalPercentage(got.Ownership), 0.1)
}

func TestCalculate_PostMoneyPoolAlreadyAboveTargetIsNoop(t *testing.T) {
	s := seedScenario()
	r := pricedRound("series-a", 1, 5_000_000, 20_000_000)
	r.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: 5}
	s.Rounds = []model.Round{r}

	got := calculate(t, s).RoundResults[0]
	assert.Zero(t, got.ESOPSharesAdded)
	assert.InDelta(t, 12_500_000, got.TotalShares, 1e-6)
}

func TestCalculate_SAFEConvertsAtNextPricedRound(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		pricedRound("series-a", 2, 5_000_000, 20_000_000),
		safeRound("pre-seed", 1, 1_000_000, 10_000_000, 0),
	}

	res := calculate(t, s)
	require.Len(t, res.RoundResults, 2)

	preview := res.RoundResults[0]
	assert.Equal(t, "pre-seed", preview.RoundID)
	assert.Zero(t, preview.SharesIssued)
	assert.Zero(t, preview.Dilution)
	assert.InDelta(t, BaseShares, preview.TotalShares, 1e-6)
	assert.InDelta(t, 1, preview.SharePrice, 1e-9)

	priced := res.RoundResults[1]
	require.Len(t, priced.Conversions, 1)
	c := priced.Conversions[0]
	assert.InDelta(t, 1, c.ConversionPrice, 1e-9)
	assert.InDelta(t, 1_000_000, c.Shares, 1e-6)
	assert.Equal(t, "series-a", c.ConvertedInRoundID)
	assert.InDelta(t, 3_500_000, priced.SharesIssued, 1e-6)
	assert.InDelta(t, 13_500_000, priced.TotalShares, 1e-6)
	assert.InDelta(t, 100, TotalPercentage(priced.Ownership), 0.1)

	require.Len(t, res.Convertibles, 1)
	assert.Equal(t, ConvertibleConverted, res.Convertibles[0].Status)
}

func TestCalculate_SAFEDiscountBeatsCap(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		safeRound("safe", 1, 1_000_000, 50_000_000, 20),
		pricedRound("series-a", 2, 5_000_000, 20_000_000),
	}

	c := calculate(t, s).RoundResults[1].Conversions[0]
	assert.InDelta(t, 5, c.CapPrice, 1e-9)
	assert.InDelta(t, 1.6, c.DiscountPrice, 1e-9)
	assert.InDelta(t, 1.6, c.ConversionPrice, 1e-9)
	assert.InDelta(t, 625_000, c.Shares, 1e-6)
}

func TestCalculate_SAFEConvertsOnlyOnce(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		safeRound("safe", 1, 1_000_000, 10_000_000, 0),
		pricedRound("seed", 2, 2_000_000, 10_000_000),
		pricedRound("series-a", 3, 5_000_000, 40_000_000),
	}

	res := calculate(t, s)
	assert.Len(t, res.RoundResults[1].Conversions, 1)
	assert.Empty(t, res.RoundResults[2].Conversions)

	seed := res.RoundResults[1]
	seriesA := res.RoundResults[2]
	assert.InDelta(t, seriesA.SharesIssued, seriesA.TotalShares-seed.TotalShares, 1e-6)
}

func TestCalculate_MultipleSAFEsFoldIntoOneInvestorRow(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		safeRound("safe-1", 1, 500_000, 8_000_000, 0),
		safeRound("safe-2", 2, 500_000, 12_000_000, 10),
		pricedRound("series-a", 3, 5_000_000, 20_000_000),
	}

	res := calculate(t, s)
	priced := res.RoundResults[2]
	require.Len(t, priced.Conversions, 2)

	sum := 0.0
	for _, c := range priced.Conversions {
		sum += c.Shares
	}
	inv, ok := FindRow(priced.Ownership, InvestorRowID("series-a"))
	require.True(t, ok)
	assert.InDelta(t, 2_500_000+sum, inv.Shares, 1e-6)

	_, ok = FindRow(priced.Ownership, InvestorRowID("safe-1"))
	assert.False(t, ok)
}

func TestCalculate_UnconvertedSAFEStaysPending(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		pricedRound("seed", 1, 1_000_000, 9_000_000),
		safeRound("bridge", 2, 500_000, 20_000_000, 0),
	}

	res := calculate(t, s)
	require.Len(t, res.Convertibles, 1)
	assert.Equal(t, ConvertiblePending, res.Convertibles[0].Status)
	assert.InDelta(t, res.RoundResults[0].TotalShares, res.TotalShares, 1e-9)
}

func TestCalculate_SecondaryTransfer(t *testing.T) {
	s := seedScenario()
	r := pricedRound("series-a", 1, 5_000_000, 20_000_000)
	r.Secondary = &model.SecondaryConfig{
		Enabled: true,
		Timing:  model.SecondaryBefore,
		Transactions: []model.SecondaryTransaction{
			{SellerID: "alice", AmountType: model.SecondaryPercentage, Amount: 10, PricePerShare: 2},
			{SellerID: "bob", AmountType: model.SecondaryShares, Amount: 100_000_000},
			{SellerID: "ghost", AmountType: model.SecondaryShares, Amount: 1_000},
		},
	}
	s.Rounds = []model.Round{r}

	got := calculate(t, s).RoundResults[0]

	assert.InDelta(t, 12_500_000, got.TotalShares, 1e-6)
	alice, _ := FindRow(got.Ownership, "alice")
	bob, _ := FindRow(got.Ownership, "bob")
	inv, _ := FindRow(got.Ownership, InvestorRowID("series-a"))
	esop, _ := FindRow(got.Ownership, ESOPRowID)

	assert.InDelta(t, 5_400_000, alice.Shares, 1e-6)
	assert.Zero(t, bob.Shares)
	assert.InDelta(t, 2_500_000+600_000+2_500_000, inv.Shares, 1e-6)
	assert.InDelta(t, 1_500_000, esop.Shares, 1e-6)
	assert.InDelta(t, 3_100_000, got.SecondaryShares, 1e-6)
	assert.InDelta(t, 100, TotalPercentage(got.Ownership), 0.1)
}

func TestCalculate_SecondarySaleDoesNotSkewLaterFounderSplit(t *testing.T) {
	s := seedScenario()
	first := pricedRound("seed", 1, 2_000_000, 8_000_000)
	first.Secondary = &model.SecondaryConfig{
		Enabled: true,
		Transactions: []model.SecondaryTransaction{
			{SellerID: "alice", AmountType: model.SecondaryShares, Amount: 1_000_000},
		},
	}
	s.Rounds = []model.Round{first, pricedRound("series-a", 2, 5_000_000, 30_000_000)}

	res := calculate(t, s)

	seedAlice, _ := FindRow(res.RoundResults[0].Ownership, "alice")
	seedInv, _ := FindRow(res.RoundResults[0].Ownership, InvestorRowID("seed"))
	assert.InDelta(t, 5_000_000, seedAlice.Shares, 1e-6)
	assert.InDelta(t, 3_500_000, seedInv.Shares, 1e-6)

	// The sold shares stay with the seed investor; the founders' remaining
	// slice is split 60:25 again.
	round := res.RoundResults[1]
	alice, _ := FindRow(round.Ownership, "alice")
	bob, _ := FindRow(round.Ownership, "bob")
	inv, _ := FindRow(round.Ownership, InvestorRowID("seed"))
	assert.InDelta(t, 3_500_000, inv.Shares, 1e-6)
	assert.InDelta(t, 7_500_000, alice.Shares+bob.Shares, 1e-6)
	assert.InDelta(t, 60.0/25.0, alice.Shares/bob.Shares, 1e-9)
	assert.InDelta(t, 100, TotalPercentage(round.Ownership), 0.1)
}

func TestCalculate_UnderAllocatedFoundersUseBaseline(t *testing.T) {
	s := seedScenario()
	s.Founders = []model.Founder{
		{ID: "alice", Name: "Alice", InitialEquity: 50},
		{ID: "bob", Name: "Bob", InitialEquity: 25},
	}
	s.Rounds = []model.Round{pricedRound("series-a", 1, 5_000_000, 20_000_000)}

	res := calculate(t, s)
	r := res.RoundResults[0]

	assert.InDelta(t, 2, r.SharePrice, 1e-9)
	assert.InDelta(t, 2_500_000, r.SharesIssued, 1e-6)
	assert.InDelta(t, 12_500_000, r.TotalShares, 1e-6)
	assert.InDelta(t, 12, percentageOf(t, r.Ownership, ESOPRowID), 1e-9)
	assert.InDelta(t, 20, percentageOf(t, r.Ownership, InvestorRowID("series-a")), 1e-9)
	// unallocated equity falls to the founders pro rata
	assert.InDelta(t, 68*50.0/75.0, percentageOf(t, r.Ownership, "alice"), 1e-9)
	assert.InDelta(t, 68*25.0/75.0, percentageOf(t, r.Ownership, "bob"), 1e-9)
	assert.InDelta(t, 100, TotalPercentage(r.Ownership), 1e-9)
}

func TestCalculate_UnderAllocatedFoundersWithoutRounds(t *testing.T) {
	s := seedScenario()
	s.Founders[0].InitialEquity = 50

	res := calculate(t, s)
	assert.InDelta(t, BaseShares, res.TotalShares, 1e-6)
	assert.InDelta(t, 15, percentageOf(t, res.CurrentOwnership, ESOPRowID), 1e-9)
	assert.InDelta(t, 85*50.0/75.0, percentageOf(t, res.CurrentOwnership, "alice"), 1e-9)
	assert.InDelta(t, s.ExitValue, TotalExitValue(res.ExitDistribution), 1e-3)
}

func TestCalculate_SAFERoundSecondaryKeepsItsOwnRow(t *testing.T) {
	s := seedScenario()
	safe := safeRound("pre-seed", 1, 1_000_000, 10_000_000, 0)
	safe.Secondary = &model.SecondaryConfig{
		Enabled: true,
		Transactions: []model.SecondaryTransaction{
			{SellerID: "alice", AmountType: model.SecondaryShares, Amount: 500_000},
		},
	}
	s.Rounds = []model.Round{safe, pricedRound("series-a", 2, 5_000_000, 20_000_000)}

	res := calculate(t, s)

	preview := res.RoundResults[0]
	buyer, ok := FindRow(preview.Ownership, InvestorRowID("pre-seed"))
	require.True(t, ok)
	assert.InDelta(t, 500_000, buyer.Shares, 1e-6)
	assert.InDelta(t, 100, TotalPercentage(preview.Ownership), 1e-9)

	priced := res.RoundResults[1]
	buyer, _ = FindRow(priced.Ownership, InvestorRowID("pre-seed"))
	assert.InDelta(t, 500_000, buyer.Shares, 1e-6)
	inv, _ := FindRow(priced.Ownership, InvestorRowID("series-a"))
	assert.InDelta(t, 2_500_000+1_000_000, inv.Shares, 1e-6)
}

func TestCalculate_RoundsProcessedByOrder(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		pricedRound("series-b", 3, 20_000_000, 80_000_000),
		pricedRound("seed", 1, 2_000_000, 8_000_000),
		pricedRound("series-a", 2, 5_000_000, 25_000_000),
	}

	res := calculate(t, s)
	var ids []string
	for _, r := range res.RoundResults {
		ids = append(ids, r.RoundID)
	}
	assert.Equal(t, []string{"seed", "series-a", "series-b"}, ids)
}

func TestCalculate_Invariants(t *testing.T) {
	s := seedScenario()
	adjusted := pricedRound("series-a", 3, 8_000_000, 30_000_000)
	adjusted.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: 12, IsPreMoney: true}
	topUp := pricedRound("series-b", 4, 25_000_000, 100_000_000)
	topUp.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: 10}
	topUp.Secondary = &model.SecondaryConfig{Enabled: true, Transactions: []model.SecondaryTransaction{
		{SellerID: "bob", AmountType: model.SecondaryPercentage, Amount: 25},
	}}
	s.Rounds = []model.Round{
		safeRound("pre-seed", 1, 750_000, 6_000_000, 15),
		pricedRound("seed", 2, 2_000_000, 10_000_000),
		adjusted,
		safeRound("bridge", 5, 3_000_000, 200_000_000, 0),
		topUp,
		pricedRound("series-c", 6, 60_000_000, 400_000_000),
	}

	res := calculate(t, s)
	prevTotal := float64(BaseShares)
	for _, r := range res.RoundResults {
		assert.InDelta(t, 100, TotalPercentage(r.Ownership), 0.1, "round %s", r.RoundID)
		assert.GreaterOrEqual(t, r.TotalShares, prevTotal, "round %s", r.RoundID)
		for _, row := range r.Ownership {
			assert.GreaterOrEqual(t, row.Shares, 0.0, "round %s row %s", r.RoundID, row.ID)
		}
		prevTotal = r.TotalShares
	}
	assert.InDelta(t, s.ExitValue, TotalExitValue(res.ExitDistribution), 1e-3)
}

func TestCalculate_Idempotent(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		safeRound("safe", 1, 1_000_000, 10_000_000, 20),
		pricedRound("series-a", 2, 5_000_000, 20_000_000),
	}

	e := New()
	first, err := e.Calculate(s)
	require.NoError(t, err)
	second, err := e.Calculate(s)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculate_DoesNotMutateScenario(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		pricedRound("series-a", 2, 5_000_000, 20_000_000),
		safeRound("safe", 1, 1_000_000, 10_000_000, 0),
	}
	before := s.Rounds[0].ID

	_, err := New().Calculate(s)
	require.NoError(t, err)
	assert.Equal(t, before, s.Rounds[0].ID)
}

func TestCalculate_FailsFastNamingRound(t *testing.T) {
	s := seedScenario()
	s.Rounds = []model.Round{
		{ID: "r1", Name: "Series A", Type: model.RoundPriced, Amount: 5_000_000, Order: 1},
	}
	require.NotEmpty(t, model.Validate(s))

	res, err := New().Calculate(s)
	require.Error(t, err)
	assert.Nil(t, res)

	var calcErr *CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, "r1", calcErr.RoundID)
	assert.Contains(t, err.Error(), "Series A")
}

func TestCalculate_ValidationGate(t *testing.T) {
	withSecondary := func(r model.Round, seller string, pct float64) model.Round {
		r.Secondary = &model.SecondaryConfig{Enabled: true, Transactions: []model.SecondaryTransaction{
			{SellerID: seller, AmountType: model.SecondaryPercentage, Amount: pct},
		}}
		return r
	}
	withPool := func(r model.Round, target float64, preMoney bool) model.Round {
		r.ESOPAdjustment = &model.ESOPAdjustment{Expand: true, NewPoolSize: target, IsPreMoney: preMoney}
		return r
	}

	scenarios := map[string]model.Scenario{
		"empty rounds": seedScenario(),
		"zero pool": func() model.Scenario {
			s := seedScenario()
			s.ESOP.PoolSize = 0
			s.Rounds = []model.Round{pricedRound("a", 1, 1_000_000, 4_000_000)}
			return s
		}(),
		"safe only": func() model.Scenario {
			s := seedScenario()
			s.Rounds = []model.Round{safeRound("s", 1, 1_000_000, 5_000_000, 99)}
			return s
		}(),
		"under-allocated founders": func() model.Scenario {
			s := seedScenario()
			s.Founders[0].InitialEquity = 30
			s.Founders[1].InitialEquity = 10
			s.Rounds = []model.Round{
				safeRound("s", 1, 500_000, 4_000_000, 10),
				withPool(pricedRound("a", 2, 3_000_000, 12_000_000), 20, true),
			}
			return s
		}(),
		"99 percent discount converts": func() model.Scenario {
			s := seedScenario()
			s.Rounds = []model.Round{
				safeRound("s", 1, 1_000_000, 500_000_000, 99),
				pricedRound("a", 2, 5_000_000, 20_000_000),
			}
			return s
		}(),
		"safe then pre-money expansion": func() model.Scenario {
			s := seedScenario()
			s.Rounds = []model.Round{
				withSecondary(safeRound("s", 1, 1_000_000, 8_000_000, 20), "bob", 10),
				withPool(pricedRound("a", 2, 5_000_000, 20_000_000), 25, true),
			}
			return s
		}(),
		"post-money top-up with secondary": func() model.Scenario {
			s := seedScenario()
			s.Rounds = []model.Round{
				withSecondary(withPool(pricedRound("a", 1, 5_000_000, 20_000_000), 20, false), "alice", 30),
				pricedRound("b", 2, 10_000_000, 60_000_000),
			}
			return s
		}(),
	}
	for name, s := range scenarios {
		t.Run(name, func(t *testing.T) {
			require.Empty(t, model.Validate(s))
			res, err := New().Calculate(s)
			require.NoError(t, err)
			for _, r := range res.RoundResults {
				assert.InDelta(t, 100, TotalPercentage(r.Ownership), 0.1, "round %s", r.RoundID)
			}
			assert.InDelta(t, 100, TotalPercentage(res.CurrentOwnership), 0.1)
			assert.InDelta(t, s.ExitValue, TotalExitValue(res.ExitDistribution), 1e-3)
		})
	}
}
