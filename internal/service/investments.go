package service

import (
	"fmt"
	"math/rand"

	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// EarlyWithdrawPenalty is taken off the current value when a player pulls
// out of a still-active investment.
const EarlyWithdrawPenalty = 0.05

// Strategy describes one of the fixed investment plans
type Strategy struct {
	Code           string  `json:"code"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	MatureDays     int64   `json:"mature_days"`
}

var strategies = map[string]Strategy{
	"conservative": {Code: "conservative", ExpectedReturn: 0.08, Volatility: 0.02, MatureDays: 7},
	"balanced":     {Code: "balanced", ExpectedReturn: 0.12, Volatility: 0.05, MatureDays: 14},
	"aggressive":   {Code: "aggressive", ExpectedReturn: 0.18, Volatility: 0.10, MatureDays: 30},
}

// InvestmentService handles placement, price drift and settlement of
// player investments.
type InvestmentService struct {
	rng *rand.Rand
}

// NewInvestmentService creates a new investment service
func NewInvestmentService(rng *rand.Rand) *InvestmentService {
	return &InvestmentService{rng: rng}
}

// Strategies returns the available plans
func (s *InvestmentService) Strategies() []Strategy {
	out := make([]Strategy, 0, len(strategies))
	for _, code := range []string{"conservative", "balanced", "aggressive"} {
		out = append(out, strategies[code])
	}
	return out
}

// Place opens a new investment on the given strategy, debiting the stake
// through the ledger.
func (s *InvestmentService) Place(userID int64, strategyCode string, amount float64) (int64, error) {
	strat, ok := strategies[strategyCode]
	if !ok {
		return 0, fmt.Errorf("%w: unknown strategy %q", ErrValidation, strategyCode)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	player, err := storage.GetPlayer(userID)
	if err != nil {
		return 0, err
	}
	if player == nil {
		return 0, fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}
	if player.Balance < amount {
		return 0, fmt.Errorf("%w: balance %.2f is below stake %.2f", ErrValidation, player.Balance, amount)
	}

	id, err := storage.CreateInvestment(userID, strat.Code, amount, strat.ExpectedReturn, strat.Volatility, strat.MatureDays)
	if err != nil {
		return 0, err
	}
	if err := storage.ApplyDelta(userID, 0, -amount, storage.TxInvestment, fmt.Sprintf("%s investment #%d", strat.Code, id)); err != nil {
		return 0, err
	}

	logger.Debug(userID, "investment_placed", fmt.Sprintf("id=%d strategy=%s amount=%.0f", id, strat.Code, amount))
	return id, nil
}

// TickPrices drifts every active investment by a uniform draw within its
// volatility band. Values never go below zero.
func (s *InvestmentService) TickPrices() error {
	active, err := storage.ListActiveInvestments()
	if err != nil {
		return err
	}
	for _, inv := range active {
		drift := (s.rng.Float64()*2 - 1) * inv.Volatility
		if err := storage.SetInvestmentValue(inv.ID, inv.CurrentValue*(1+drift)); err != nil {
			return fmt.Errorf("failed to tick investment %d: %w", inv.ID, err)
		}
	}
	return nil
}

// MarkMatured promotes active investments past their maturity date
func (s *InvestmentService) MarkMatured() (int64, error) {
	return storage.MarkMaturedInvestments()
}

// Claim settles a matured investment at its current value. Claiming twice,
// claiming a still-active investment, or claiming a foreign one all come
// back as ErrStateConflict.
func (s *InvestmentService) Claim(userID, investmentID int64) (float64, error) {
	value, ok, err := storage.ClaimInvestment(userID, investmentID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: investment %d is not claimable", ErrStateConflict, investmentID)
	}
	if err := storage.ApplyDelta(userID, 0, value, storage.TxInvestmentIncome, fmt.Sprintf("Investment #%d payout", investmentID)); err != nil {
		return 0, err
	}

	logger.Debug(userID, "investment_claimed", fmt.Sprintf("id=%d value=%.0f", investmentID, value))
	return value, nil
}

// Withdraw cashes out an open investment. An early exit from a still-active
// position pays current value less the penalty; a matured one pays in full.
func (s *InvestmentService) Withdraw(userID, investmentID int64) (payout float64, penalized bool, err error) {
	payout, prior, ok, err := storage.WithdrawInvestment(userID, investmentID, EarlyWithdrawPenalty)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, fmt.Errorf("%w: investment %d is not open", ErrStateConflict, investmentID)
	}
	if err := storage.ApplyDelta(userID, 0, payout, storage.TxInvestmentWithdraw, fmt.Sprintf("Investment #%d withdrawal", investmentID)); err != nil {
		return 0, false, err
	}

	penalized = prior == storage.InvestmentStatusActive
	logger.Debug(userID, "investment_withdrawn", fmt.Sprintf("id=%d payout=%.0f penalized=%t", investmentID, payout, penalized))
	return payout, penalized, nil
}

// OpenInvestments lists a player's active and matured positions
func (s *InvestmentService) OpenInvestments(userID int64) ([]storage.Investment, error) {
	return storage.GetOpenInvestments(userID)
}
