package captable

import (
	"fmt"
	"math"
)

// PreMoneyPoolExpansion sizes a pool of target fraction t on top of the
// current capitalization c, before the round is priced:
//
//	pool / total = t, total = c + pool  =>  total = c / (1 - t)
//
// It returns the new pre-round total and the pool shares it contains. The
// incoming investor is priced against the new total, so only existing
// holders are diluted.
func PreMoneyPoolExpansion(current, target float64) (total, poolShares float64, err error) {
	if target <= 0 || target >= 1 {
		return 0, 0, fmt.Errorf("pool target %.4f must be in (0, 1)", target)
	}
	if current <= 0 {
		return 0, 0, fmt.Errorf("no shares outstanding")
	}
	total = current / (1 - target)
	return total, total - current, nil
}

// PostMoneyPoolTopUp returns the additional pool shares needed so the pool is
// fraction t of the post-investment total. q is the post-investment total
// before the top-up; esop is the pool already held.
//
//	target / (q + target - esop) = t  =>  target = t*(q - esop) / (1 - t)
//
// A pool already at or above target needs nothing; shares are never bought back.
func PostMoneyPoolTopUp(q, esop, target float64) (float64, error) {
	if target <= 0 || target >= 1 {
		return 0, fmt.Errorf("pool target %.4f must be in (0, 1)", target)
	}
	targetShares := target * (q - esop) / (1 - target)
	return math.Max(0, targetShares-esop), nil
}
