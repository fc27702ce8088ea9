package service

import (
	"fmt"
	"math/rand"

	"tycoonbot/internal/game"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// PvPCooldownSeconds is the mandatory pause between fights for both
// participants, applied after every fight regardless of outcome.
const PvPCooldownSeconds = 30

// FightResult summarizes a resolved fight for the caller
type FightResult struct {
	MatchID         int64   `json:"match_id"`
	Outcome         string  `json:"outcome"`
	WinnerID        int64   `json:"winner_id,omitempty"`
	LoserID         int64   `json:"loser_id,omitempty"`
	Bet             float64 `json:"bet"`
	ChallengerPower float64 `json:"challenger_power"`
	OpponentPower   float64 `json:"opponent_power"`
	WinnerRating    float64 `json:"winner_rating,omitempty"`
	LoserRating     float64 `json:"loser_rating,omitempty"`
}

// PvPService resolves fights between players
type PvPService struct {
	rng *rand.Rand
}

// NewPvPService creates a new PvP service
func NewPvPService(rng *rand.Rand) *PvPService {
	return &PvPService{rng: rng}
}

// Fight runs a full match between challenger and opponent: cooldown check,
// bet clamp, power roll, stake transfer, Elo update, and a fresh cooldown
// for both sides. Draws move no money and no rating.
func (s *PvPService) Fight(challengerID, opponentID int64, bet float64) (*FightResult, error) {
	if challengerID == opponentID {
		return nil, fmt.Errorf("%w: cannot fight yourself", ErrValidation)
	}
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive", ErrValidation)
	}

	challenger, err := storage.GetPlayer(challengerID)
	if err != nil {
		return nil, err
	}
	if challenger == nil {
		return nil, fmt.Errorf("%w: player %d", ErrNotFound, challengerID)
	}
	opponent, err := storage.GetPlayer(opponentID)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return nil, fmt.Errorf("%w: player %d", ErrNotFound, opponentID)
	}

	remaining, err := storage.CooldownRemaining(challengerID, "pvp")
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: pvp available in %ds", ErrValidation, remaining)
	}

	if err := storage.EnsurePvPProfile(challengerID); err != nil {
		return nil, err
	}
	if err := storage.EnsurePvPProfile(opponentID); err != nil {
		return nil, err
	}

	bet = game.ClampBet(bet, challenger.Balance, opponent.Balance)

	power1 := game.Power(challenger)
	power2 := game.Power(opponent)
	fight := game.Resolve(s.rng, power1, power2)

	result := &FightResult{
		Outcome:         fight.Outcome,
		Bet:             bet,
		ChallengerPower: fight.FinalPower1,
		OpponentPower:   fight.FinalPower2,
	}

	switch fight.Outcome {
	case game.OutcomeWin:
		result.WinnerID, result.LoserID = challengerID, opponentID
	case game.OutcomeLoss:
		result.WinnerID, result.LoserID = opponentID, challengerID
	}

	if fight.Outcome != game.OutcomeDraw {
		desc := fmt.Sprintf("PvP vs %d", opponentID)
		if result.WinnerID == opponentID {
			desc = fmt.Sprintf("PvP vs %d", challengerID)
		}
		if err := storage.ApplyDelta(result.WinnerID, 0, bet, storage.TxPvPWin, desc); err != nil {
			return nil, err
		}
		if err := storage.ApplyDelta(result.LoserID, 0, -bet, storage.TxPvPLoss, desc); err != nil {
			return nil, err
		}
		winRating, loseRating, err := storage.UpdateRatingsAfterMatch(result.WinnerID, result.LoserID)
		if err != nil {
			return nil, err
		}
		result.WinnerRating = winRating
		result.LoserRating = loseRating
	}

	matchID, err := storage.RecordPvPMatch(challengerID, opponentID, result.WinnerID, result.LoserID,
		bet, fight.FinalPower1, fight.FinalPower2, fight.Outcome)
	if err != nil {
		return nil, err
	}
	result.MatchID = matchID

	// Both sides sit out the cooldown whatever the outcome was.
	if err := storage.SetCooldown(challengerID, "pvp", PvPCooldownSeconds); err != nil {
		return nil, err
	}
	if err := storage.SetCooldown(opponentID, "pvp", PvPCooldownSeconds); err != nil {
		return nil, err
	}

	logger.Debug(challengerID, "pvp_fight", fmt.Sprintf("match=%d opponent=%d outcome=%s bet=%.0f", matchID, opponentID, fight.Outcome, bet))
	return result, nil
}

// History returns a player's recent matches
func (s *PvPService) History(userID int64, limit int) ([]storage.PvPMatch, error) {
	return storage.GetPvPMatches(userID, limit)
}

// Top returns the rating leaderboard
func (s *PvPService) Top(limit int) ([]storage.PvPRank, error) {
	return storage.GetPvPTop(limit)
}
