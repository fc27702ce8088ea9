package game

import (
	"math"
	"math/rand"
)

// Base reward parameters per product type. IT work pays a flat figure;
// farm and factory output scales with quantity.
const (
	itBaseReward      = 20000
	farmUnitReward    = 50
	factoryUnitReward = 120
)

// Production outcome distribution parameters
const (
	productionFailChance = 0.10
	failFactorMin        = 0.2
	failFactorMax        = 0.8
	successFactorMin     = 0.2
	successFactorMax     = 10.0
	successSigma         = 0.6
)

// ProductionBaseReward returns the pre-factor reward for a collected job
func ProductionBaseReward(prodType string, quantity float64) float64 {
	switch prodType {
	case "IT":
		return itBaseReward
	case "FARM":
		return quantity * farmUnitReward
	case "FACTORY":
		return quantity * factoryUnitReward
	default:
		return 0
	}
}

// ProductionOutcomeFactor draws the random multiplier applied to the base
// reward. 10% of draws land in the failure branch: a loss factor uniform in
// [-0.8, -0.2]. The rest draw a right-skewed lognormal factor with median
// near 1.0, clamped to [0.2, 10.0]. The two branches stay separate: a
// barely-break-even success (0.2) and the mildest failure (-0.2) are
// distinct outcomes.
func ProductionOutcomeFactor(rng *rand.Rand) float64 {
	if rng.Float64() < productionFailChance {
		return -(failFactorMin + rng.Float64()*(failFactorMax-failFactorMin))
	}
	factor := math.Exp(rng.NormFloat64() * successSigma)
	if factor < successFactorMin {
		factor = successFactorMin
	}
	if factor > successFactorMax {
		factor = successFactorMax
	}
	return factor
}

// ProductionReward computes the full randomized payout; it may be negative
func ProductionReward(rng *rand.Rand, prodType string, quantity float64) float64 {
	return ProductionBaseReward(prodType, quantity) * ProductionOutcomeFactor(rng)
}
