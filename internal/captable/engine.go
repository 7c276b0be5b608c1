package captable

import (
	"math"

	"captable/internal/model"
)

// BaseShares is the share count the initial founder/pool percentages are
// allocated against. Any positive value gives the same percentages.
const BaseShares = 10_000_000

type Engine struct{}

func New() *Engine { return &Engine{} }

// Validate is model.Validate; callers use it for live form checks.
func (e *Engine) Validate(s model.Scenario) []string {
	return model.Validate(s)
}

// Calculate folds the scenario's rounds, in Order, over the initial allocation.
// It does not re-run Validate; a precondition it trips over is returned as a
// *CalculationError naming the round, and no partial result is produced.
func (e *Engine) Calculate(s model.Scenario) (*Result, error) {
	h := initialHoldings(s)
	if h.founderWeight() <= 0 {
		return nil, &CalculationError{Reason: "scenario has no founder equity to allocate"}
	}
	if h.esop.Shares < 0 || h.esop.Shares >= h.totalShares {
		return nil, &CalculationError{Reason: "option pool must be in [0, 100) percent"}
	}

	rounds := model.SortedRounds(s.Rounds)
	safeTerms := map[string]model.SAFETerms{}
	conv := &convertibles{}
	results := make([]RoundResult, 0, len(rounds))

	for _, r := range rounds {
		if r.Amount <= 0 {
			return nil, roundError(r, "investment amount must be greater than 0")
		}

		var (
			res RoundResult
			err error
		)
		switch r.Type {
		case model.RoundSAFE:
			if r.SAFE == nil || r.SAFE.ValuationCap <= 0 {
				return nil, roundError(r, "SAFE round is missing a valuation cap")
			}
			if r.SAFE.Discount < 0 || r.SAFE.Discount >= 100 {
				return nil, roundError(r, "SAFE discount must be in [0, 100)")
			}
			safeTerms[r.ID] = *r.SAFE
			conv.add(r)
			res = h.previewSAFE(r)
		case model.RoundPriced:
			if r.Priced == nil || r.Priced.PreMoney <= 0 {
				return nil, roundError(r, "priced round is missing a pre-money valuation")
			}
			res, err = h.processPriced(r, conv, safeTerms)
			if err != nil {
				return nil, err
			}
		default:
			return nil, roundError(r, "unknown round type "+string(r.Type))
		}

		res.SecondaryShares = h.applySecondary(r)
		res.RoundID = r.ID
		res.RoundName = r.Label()
		res.RoundType = r.Type
		res.Order = r.Order
		res.Ownership = h.snapshot()
		results = append(results, res)
	}

	var ownership []OwnershipRow
	if len(results) > 0 {
		ownership = results[len(results)-1].Ownership
	} else {
		ownership = h.snapshot()
	}

	return &Result{
		TotalShares:      h.totalShares,
		RoundResults:     results,
		CurrentOwnership: ownership,
		ExitDistribution: DistributeExit(ownership, s.ExitValue),
		Convertibles:     conv.snapshot(),
	}, nil
}

// previewSAFE reports a SAFE that has not converted yet. Nothing is issued;
// SharePrice is the cap spread over current shares, for display only.
func (h *holdings) previewSAFE(r model.Round) RoundResult {
	return RoundResult{
		PreMoney:    r.SAFE.ValuationCap,
		PostMoney:   r.SAFE.ValuationCap + r.Amount,
		SharePrice:  r.SAFE.ValuationCap / h.totalShares,
		TotalShares: h.totalShares,
	}
}

// processPriced issues the round's investor shares, converts pending SAFEs at
// the same price, and applies the round's pool adjustment.
func (h *holdings) processPriced(r model.Round, conv *convertibles, safeTerms map[string]model.SAFETerms) (RoundResult, error) {
	preMoney := r.Priced.PreMoney
	adj := r.ESOPAdjustment
	expand := adj != nil && adj.Expand
	esopAdded := 0.0

	preShares := h.totalShares
	if expand && adj.IsPreMoney {
		total, pool, err := PreMoneyPoolExpansion(h.totalShares, adj.NewPoolSize/100)
		if err != nil {
			return RoundResult{}, roundError(r, "pre-money pool expansion: "+err.Error())
		}
		// The refreshed pool replaces the prior pool; the founders' slice
		// absorbs the difference on rebalance.
		preShares = total
		esopAdded = total - h.totalShares
		h.esop.Shares = pool
		h.totalShares = total
	}

	sharePrice := preMoney / preShares
	investorShares := r.Amount / sharePrice

	conversions, safeShares, err := conv.convert(r, safeTerms, preShares, sharePrice)
	if err != nil {
		return RoundResult{}, err
	}
	issued := investorShares + safeShares
	h.totalShares = preShares + issued
	h.investor(r).Shares += issued

	if expand && !adj.IsPreMoney {
		additional, err := PostMoneyPoolTopUp(h.totalShares, h.esop.Shares, adj.NewPoolSize/100)
		if err != nil {
			return RoundResult{}, roundError(r, "post-money pool top-up: "+err.Error())
		}
		h.esop.Shares += additional
		h.totalShares += additional
		esopAdded += additional
	}

	h.rebalanceFounders()

	if math.IsNaN(h.totalShares) || math.IsInf(h.totalShares, 0) {
		return RoundResult{}, roundError(r, "share count is not finite")
	}

	return RoundResult{
		PreMoney:        preMoney,
		PostMoney:       r.PostMoney(),
		SharePrice:      sharePrice,
		SharesIssued:    issued,
		ESOPSharesAdded: esopAdded,
		TotalShares:     h.totalShares,
		Dilution:        issued / h.totalShares * 100,
		Conversions:     conversions,
	}, nil
}

func roundError(r model.Round, reason string) *CalculationError {
	return &CalculationError{RoundID: r.ID, RoundName: r.Label(), Reason: reason}
}
