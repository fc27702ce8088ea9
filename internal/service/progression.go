package service

import (
	"fmt"

	"tycoonbot/internal/game"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// DailyIncomeCooldownSeconds gates the daily settlement to once per 24 hours
const DailyIncomeCooldownSeconds = 24 * 60 * 60

// ProgressionService runs daily settlement, level-ups and achievements
type ProgressionService struct {
	catalog *game.Catalog
}

// NewProgressionService creates a new progression service
func NewProgressionService(catalog *game.Catalog) *ProgressionService {
	return &ProgressionService{catalog: catalog}
}

// DailyResult is the outcome of one daily settlement
type DailyResult struct {
	Progress game.DailyProgress    `json:"progress"`
	LevelUp  *game.LevelUpResult   `json:"level_up,omitempty"`
	Awarded  []game.AchievementSpec `json:"awarded,omitempty"`
}

/// ApplyDailyProgress settles a player's daily income once per 24-hour window:
// net income through the ledger, experience accrual, and a level-up with its
// bonuses if the threshold is cleared.
func (s *ProgressionService) ApplyDailyProgress(userID int64) (*DailyResult, error) {
	remaining, err := storage.CooldownRemaining(userID, "daily_income")
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: daily income available in %ds", ErrValidation, remaining)
	}

	player, err := storage.GetPlayer(userID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}

	businesses, err := storage.GetPlayerBusinesses(userID)
	if err != nil {
		return nil, err
	}

	progress := s.catalog.CalculateDailyProgress(businesses)
	result := &DailyResult{Progress: progress}

	if progress.NetIncome != 0 {
		if err := storage.ApplyDelta(userID, 0, progress.NetIncome, storage.TxDailyIncome, "Daily business income"); err != nil {
			return nil, err
		}
	}

	experience := player.Experience
	if progress.Experience > 0 {
		experience, err = storage.AddExperience(userID, progress.Experience)
		if err != nil {
			return nil, err
		}
	}

	if levelUp, ok := game.LevelUp(experience, player.Level); ok {
		if err := storage.ApplyLevelUp(userID, levelUp.NewLevel, levelUp.RemainingXP, levelUp.BalanceBonus, levelUp.PopularityBonus); err != nil {
			return nil, err
		}
		result.LevelUp = &levelUp
	}

	if err := storage.SetCooldown(userID, "daily_income", DailyIncomeCooldownSeconds); err != nil {
		return nil, err
	}

	awarded, err := s.CheckAndGrantAchievements(userID)
	if err != nil {
		return nil, err
	}
	result.Awarded = awarded

	logger.Debug(userID, "daily_progress", fmt.Sprintf("net=%.0f xp=%d level_up=%t", progress.NetIncome, progress.Experience, result.LevelUp != nil))
	return result, nil
}

// CheckAndGrantAchievements evaluates the threshold table against the
// player's current state and grants any newly qualified badges.
func (s *ProgressionService) CheckAndGrantAchievements(userID int64) ([]game.AchievementSpec, error) {
	player, err := storage.GetPlayer(userID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}

	count, err := storage.CountPlayerBusinesses(userID)
	if err != nil {
		return nil, err
	}
	earned, err := storage.GetAchievementTypes(userID)
	if err != nil {
		return nil, err
	}

	var granted []game.AchievementSpec
	for _, spec := range game.CheckAchievements(player, count, earned) {
		ok, err := storage.GrantAchievement(userID, spec.Type, spec.Title, spec.Description)
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, spec)
		}
	}
	return granted, nil
}
