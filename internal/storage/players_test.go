package storage

import (
	"testing"
)

func setupTestDB(t *testing.T) {
	// Use in-memory database for tests
	if err := InitDB(":memory:"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

func cleanupTestDB(t *testing.T) {
	CloseDB()
}

func TestCreatePlayer(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	player, err := CreatePlayer(12345, "testuser", "Test User")
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	if player == nil {
		t.Fatal("Expected player, got nil")
	}
	if player.UserID != 12345 {
		t.Errorf("Expected UserID 12345, got %d", player.UserID)
	}
	if player.Balance != StartingBalance {
		t.Errorf("Expected starting balance %.0f, got %.0f", StartingBalance, player.Balance)
	}
	if player.Level != 1 {
		t.Errorf("Expected level 1, got %d", player.Level)
	}

	// The welcome bonus shows up in the transaction log
	txs, err := GetTransactions(12345, 10)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Type != TxWelcomeBonus {
		t.Errorf("Expected transaction type %s, got %s", TxWelcomeBonus, txs[0].Type)
	}
}

func TestCreatePlayerIdempotent(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	first, err := CreatePlayer(12345, "testuser", "Test User")
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	if err := ApplyDelta(12345, 0, 500, TxDailyIncome, "income"); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	// A second /start must not reset the balance or re-grant the bonus
	second, err := CreatePlayer(12345, "testuser", "Test User")
	if err != nil {
		t.Fatalf("CreatePlayer (repeat) failed: %v", err)
	}
	if second.Balance != first.Balance+500 {
		t.Errorf("Expected balance %.0f, got %.0f", first.Balance+500, second.Balance)
	}

	txs, _ := GetTransactions(12345, 10)
	bonuses := 0
	for _, tx := range txs {
		if tx.Type == TxWelcomeBonus {
			bonuses++
		}
	}
	if bonuses != 1 {
		t.Errorf("Expected exactly 1 welcome bonus transaction, got %d", bonuses)
	}
}

func TestGetPlayerNotFound(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	player, err := GetPlayer(99999999)
	if err != nil {
		t.Fatalf("GetPlayer should not fail for a missing player: %v", err)
	}
	if player != nil {
		t.Error("Expected nil player for a missing user ID")
	}
}

func TestApplyDelta(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if _, err := CreatePlayer(100, "user", "User"); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	if err := ApplyDelta(100, 0, 2500, TxDailyIncome, "Daily business income"); err != nil {
		t.Fatalf("ApplyDelta (credit) failed: %v", err)
	}
	if err := ApplyDelta(100, 0, -1000, TxImprovement, "Equipment"); err != nil {
		t.Fatalf("ApplyDelta (debit) failed: %v", err)
	}

	player, _ := GetPlayer(100)
	if player.Balance != StartingBalance+1500 {
		t.Errorf("Expected balance %.0f, got %.0f", StartingBalance+1500, player.Balance)
	}
	if player.TotalIncome != StartingBalance+2500 {
		t.Errorf("Expected total income %.0f, got %.0f", StartingBalance+2500, player.TotalIncome)
	}
	if player.TotalExpenses != 1000 {
		t.Errorf("Expected total expenses 1000, got %.0f", player.TotalExpenses)
	}

	txs, _ := GetTransactions(100, 10)
	if len(txs) != 3 {
		t.Errorf("Expected 3 transactions, got %d", len(txs))
	}
}

func TestApplyDeltaUnknownPlayer(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	err := ApplyDelta(424242, 0, 100, TxDailyIncome, "nobody")
	if err == nil {
		t.Fatal("Expected error for unknown player")
	}
}

func TestAddExperienceAndLevelUp(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if _, err := CreatePlayer(200, "leveler", "Leveler"); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	total, err := AddExperience(200, 1200)
	if err != nil {
		t.Fatalf("AddExperience failed: %v", err)
	}
	if total != 1200 {
		t.Errorf("Expected 1200 experience, got %d", total)
	}

	if err := ApplyLevelUp(200, 2, 200, 2000, 0.1); err != nil {
		t.Fatalf("ApplyLevelUp failed: %v", err)
	}

	player, _ := GetPlayer(200)
	if player.Level != 2 {
		t.Errorf("Expected level 2, got %d", player.Level)
	}
	if player.Experience != 200 {
		t.Errorf("Expected 200 remaining experience, got %d", player.Experience)
	}
	if player.Balance != StartingBalance+2000 {
		t.Errorf("Expected balance %.0f, got %.0f", StartingBalance+2000, player.Balance)
	}
	if player.Popularity != 1.1 {
		t.Errorf("Expected popularity 1.1, got %.2f", player.Popularity)
	}
}

func TestUpdatePopularityFloor(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	if _, err := CreatePlayer(300, "pop", "Pop"); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	if err := UpdatePopularity(300, -5); err != nil {
		t.Fatalf("UpdatePopularity failed: %v", err)
	}
	player, _ := GetPlayer(300)
	if player.Popularity != 0 {
		t.Errorf("Expected popularity floored at 0, got %.2f", player.Popularity)
	}
}

func TestGetTopPlayers(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(1, "poor", "Poor")
	CreatePlayer(2, "rich", "Rich")
	if err := ApplyDelta(2, 0, 100000, TxDailyIncome, "windfall"); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	top, err := GetTopPlayers(10)
	if err != nil {
		t.Fatalf("GetTopPlayers failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(top))
	}
	if top[0].UserID != 2 {
		t.Errorf("Expected player 2 first, got %d", top[0].UserID)
	}
	if top[0].Rank != 1 || top[1].Rank != 2 {
		t.Errorf("Expected ranks 1 and 2, got %d and %d", top[0].Rank, top[1].Rank)
	}
}
