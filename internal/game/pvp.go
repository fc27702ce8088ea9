package game

import (
	"math/rand"

	"tycoonbot/internal/storage"
)

// Fight outcome classifications, from the challenger's point of view
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// Power computes a player's base combat power from level, experience,
// popularity and a capped contribution from capital.
func Power(p *storage.Player) float64 {
	power := float64(p.Level) * 100
	power += float64(p.Experience) * 0.1
	power += p.Popularity * 500

	capital := p.Balance / 1000
	if capital > 1000 {
		capital = 1000
	}
	power += capital

	return power
}

// FightOutcome is the resolved result of one combat computation
type FightOutcome struct {
	Outcome     string
	Power1      float64
	Power2      float64
	FinalPower1 float64
	FinalPower2 float64
}

// Resolve decides a fight between two base powers. Each side gets an
// independent uniform multiplier in [0.85, 1.15] and an independent Gaussian
// luck term (mean 0, std 0.05) applied multiplicatively. When the final
// powers land within 2% of the larger one the fight is a draw; otherwise the
// higher final power wins. Pure given the random source; persistence and
// payout happen elsewhere.
func Resolve(rng *rand.Rand, power1, power2 float64) FightOutcome {
	rand1 := 0.85 + rng.Float64()*0.30
	rand2 := 0.85 + rng.Float64()*0.30
	luck1 := rng.NormFloat64() * 0.05
	luck2 := rng.NormFloat64() * 0.05

	final1 := power1 * rand1 * (1 + luck1)
	final2 := power2 * rand2 * (1 + luck2)

	return FightOutcome{
		Outcome:     ClassifyPowers(final1, final2),
		Power1:      power1,
		Power2:      power2,
		FinalPower1: final1,
		FinalPower2: final2,
	}
}

// ClassifyPowers applies the draw band and winner selection to already-final
// powers. Split out so the symmetry of the draw condition is testable without
// random draws.
func ClassifyPowers(final1, final2 float64) string {
	maxPower := final1
	if final2 > maxPower {
		maxPower = final2
	}
	if maxPower < 1 {
		maxPower = 1
	}
	diff := final1 - final2
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 0.02*maxPower:
		return OutcomeDraw
	case final1 > final2:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}

// ClampBet limits a PvP bet so neither side risks more than half their
// balance, with a floor of 1000 when the clamp would zero the bet out.
func ClampBet(bet, balance1, balance2 float64) float64 {
	half1 := balance1 / 2
	half2 := balance2 / 2
	if half1 < 0 {
		half1 = 0
	}
	if half2 < 0 {
		half2 = 0
	}
	clamped := bet
	if half1 < clamped {
		clamped = half1
	}
	if half2 < clamped {
		clamped = half2
	}
	if clamped == 0 {
		clamped = 1000
	}
	return clamped
}
