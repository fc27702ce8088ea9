package game

import (
	"testing"

	"tycoonbot/internal/storage"
)

func TestRequiredExperience(t *testing.T) {
	if RequiredExperience(1) != 1000 {
		t.Errorf("Expected 1000 for level 1, got %d", RequiredExperience(1))
	}
	if RequiredExperience(7) != 7000 {
		t.Errorf("Expected 7000 for level 7, got %d", RequiredExperience(7))
	}
}

func TestLevelUp(t *testing.T) {
	result, ok := LevelUp(1200, 1)
	if !ok {
		t.Fatal("Expected level up at 1200 XP on level 1")
	}
	if result.NewLevel != 2 {
		t.Errorf("Expected level 2, got %d", result.NewLevel)
	}
	if result.RemainingXP != 200 {
		t.Errorf("Expected 200 XP carried over, got %d", result.RemainingXP)
	}
	if result.BalanceBonus != 2000 {
		t.Errorf("Expected bonus 2000, got %.0f", result.BalanceBonus)
	}
	if result.PopularityBonus != 0.1 {
		t.Errorf("Expected popularity bonus 0.1, got %.2f", result.PopularityBonus)
	}
}

func TestLevelUpNotYet(t *testing.T) {
	if _, ok := LevelUp(999, 1); ok {
		t.Error("Expected no level up below the threshold")
	}
	if _, ok := LevelUp(1500, 2); ok {
		t.Error("Expected no level up below a higher level's threshold")
	}
}

func TestCalculateDailyProgress(t *testing.T) {
	c := DefaultCatalog()

	businesses := []storage.Business{
		{Income: 1000, Expenses: 500},
		{Income: 3000, Expenses: 800, Improvements: []string{"equipment"}},
	}
	progress := c.CalculateDailyProgress(businesses)

	// 100 + 360 income; 25 + 40 expenses
	if progress.TotalIncome != 460 {
		t.Errorf("Expected income 460, got %.2f", progress.TotalIncome)
	}
	if progress.TotalExpenses != 65 {
		t.Errorf("Expected expenses 65, got %.2f", progress.TotalExpenses)
	}
	if progress.NetIncome != 395 {
		t.Errorf("Expected net 395, got %.2f", progress.NetIncome)
	}
	// 10% of each business's income, truncated per business: 10 + 36
	if progress.Experience != 46 {
		t.Errorf("Expected 46 XP, got %d", progress.Experience)
	}
}

func TestCalculateDailyProgressEmpty(t *testing.T) {
	c := DefaultCatalog()
	progress := c.CalculateDailyProgress(nil)
	if progress.NetIncome != 0 || progress.Experience != 0 {
		t.Errorf("Expected zero progress without businesses, got %+v", progress)
	}
}

func TestCheckAchievements(t *testing.T) {
	p := &storage.Player{Balance: 150000, Level: 10}

	specs := CheckAchievements(p, 6, map[string]bool{})
	types := make(map[string]bool)
	for _, s := range specs {
		types[s.Type] = true
	}
	if !types["balance_100k"] || !types["businesses_5"] || !types["level_10"] {
		t.Errorf("Expected balance_100k, businesses_5 and level_10, got %v", types)
	}
	if types["balance_millionaire"] {
		t.Error("Did not expect millionaire below 1M balance")
	}
	if types["businesses_10"] {
		t.Error("Did not expect businesses_10 at 6 businesses")
	}
}

func TestCheckAchievementsSkipsEarned(t *testing.T) {
	p := &storage.Player{Balance: 150000, Level: 10}

	specs := CheckAchievements(p, 0, map[string]bool{"balance_100k": true})
	for _, s := range specs {
		if s.Type == "balance_100k" {
			t.Error("Expected an already-earned badge to be skipped")
		}
	}
}

func TestCheckAchievementsMillionaireNeedsLevel(t *testing.T) {
	// A rich low-level player is not a millionaire yet
	p := &storage.Player{Balance: 2000000, Level: 4}
	for _, s := range CheckAchievements(p, 0, map[string]bool{}) {
		if s.Type == "balance_millionaire" {
			t.Error("Expected millionaire to require level 5")
		}
	}

	p.Level = 5
	found := false
	for _, s := range CheckAchievements(p, 0, map[string]bool{}) {
		if s.Type == "balance_millionaire" {
			found = true
		}
	}
	if !found {
		t.Error("Expected millionaire at 2M balance and level 5")
	}
}
