package game

import (
	"tycoonbot/internal/storage"
)

// Level-up bonus parameters
const (
	levelBalanceBonusPer  = 1000
	levelPopularityBonus  = 0.1
	dailyExperienceFactor = 0.1
)

// RequiredExperience is the experience needed to leave the given level
func RequiredExperience(level int64) int64 {
	return level * 1000
}

// CanLevelUp reports whether the accumulated experience clears the threshold
func CanLevelUp(experience, level int64) bool {
	return experience >= RequiredExperience(level)
}

// LevelUpResult describes a successful level change and its bonuses
type LevelUpResult struct {
	NewLevel        int64   `json:"new_level"`
	RemainingXP     int64   `json:"remaining_experience"`
	BalanceBonus    float64 `json:"balance_bonus"`
	PopularityBonus float64 `json:"popularity_bonus"`
}

// LevelUp computes the state after spending the current level's experience
// threshold. ok is false when the experience does not yet suffice.
func LevelUp(experience, level int64) (LevelUpResult, bool) {
	if !CanLevelUp(experience, level) {
		return LevelUpResult{}, false
	}
	newLevel := level + 1
	return LevelUpResult{
		NewLevel:        newLevel,
		RemainingXP:     experience - RequiredExperience(level),
		BalanceBonus:    float64(newLevel) * levelBalanceBonusPer,
		PopularityBonus: levelPopularityBonus,
	}, true
}

// DailyProgress aggregates one day of business activity
type DailyProgress struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetIncome     float64 `json:"net_income"`
	Experience    int64   `json:"experience_gained"`
}

// CalculateDailyProgress sums the economy calculator's output across every
// owned business. Experience accrues as 10% of gross daily income, truncated.
func (c *Catalog) CalculateDailyProgress(businesses []storage.Business) DailyProgress {
	var progress DailyProgress
	for _, b := range businesses {
		income := c.DailyIncome(b.Income, b.Improvements)
		expenses := c.DailyExpenses(b.Expenses, b.StaffSalary, b.Improvements)
		progress.TotalIncome += income
		progress.TotalExpenses += expenses
		progress.Experience += int64(income * dailyExperienceFactor)
	}
	progress.NetIncome = progress.TotalIncome - progress.TotalExpenses
	return progress
}

// AchievementSpec is one earnable badge definition
type AchievementSpec struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CheckAchievements evaluates the fixed threshold table and returns the
// badges the player now qualifies for but does not yet hold. Recording them
// is the caller's job; the storage layer deduplicates re-grants.
func CheckAchievements(p *storage.Player, businessCount int, earned map[string]bool) []AchievementSpec {
	var qualified []AchievementSpec

	add := func(spec AchievementSpec) {
		if !earned[spec.Type] {
			qualified = append(qualified, spec)
		}
	}

	if p.Balance >= 1000000 && p.Level >= 5 {
		add(AchievementSpec{Type: "balance_millionaire", Title: "Millionaire", Description: "Reached a balance of 1,000,000"})
	}
	if p.Balance >= 100000 {
		add(AchievementSpec{Type: "balance_100k", Title: "Six Figures", Description: "Reached a balance of 100,000"})
	}
	if businessCount >= 5 {
		add(AchievementSpec{Type: "businesses_5", Title: "Business Magnate", Description: "Owned 5 or more businesses"})
	}
	if businessCount >= 10 {
		add(AchievementSpec{Type: "businesses_10", Title: "Empire", Description: "Owned 10 or more businesses"})
	}
	if p.Level >= 10 {
		add(AchievementSpec{Type: "level_10", Title: "Expert", Description: "Reached level 10"})
	}

	return qualified
}
