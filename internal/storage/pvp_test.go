package storage

import (
	"math"
	"testing"
)

func TestEnsurePvPProfileDefaults(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "fighter", "Fighter")

	if err := EnsurePvPProfile(100); err != nil {
		t.Fatalf("EnsurePvPProfile failed: %v", err)
	}
	// Idempotent
	if err := EnsurePvPProfile(100); err != nil {
		t.Fatalf("EnsurePvPProfile (repeat) failed: %v", err)
	}

	profile, err := GetPvPProfile(100)
	if err != nil {
		t.Fatalf("GetPvPProfile failed: %v", err)
	}
	if profile == nil {
		t.Fatal("Expected profile, got nil")
	}
	if profile.Rating != 1000 {
		t.Errorf("Expected default rating 1000, got %.0f", profile.Rating)
	}
	if profile.Wins != 0 || profile.Losses != 0 || profile.Streak != 0 {
		t.Errorf("Expected zeroed record, got %dW/%dL streak %d", profile.Wins, profile.Losses, profile.Streak)
	}
}

func TestUpdateRatingsEqualOpponents(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(1, "winner", "Winner")
	CreatePlayer(2, "loser", "Loser")
	EnsurePvPProfile(1)
	EnsurePvPProfile(2)

	// Equal ratings: the winner gains exactly K/2
	newWinner, newLoser, err := UpdateRatingsAfterMatch(1, 2)
	if err != nil {
		t.Fatalf("UpdateRatingsAfterMatch failed: %v", err)
	}
	if math.Abs(newWinner-1016) > 0.001 {
		t.Errorf("Expected winner rating 1016, got %.3f", newWinner)
	}
	if math.Abs(newLoser-984) > 0.001 {
		t.Errorf("Expected loser rating 984, got %.3f", newLoser)
	}

	winner, _ := GetPvPProfile(1)
	loser, _ := GetPvPProfile(2)
	if winner.Wins != 1 || winner.Streak != 1 {
		t.Errorf("Expected winner 1W streak 1, got %dW streak %d", winner.Wins, winner.Streak)
	}
	if loser.Losses != 1 || loser.Streak != -1 {
		t.Errorf("Expected loser 1L streak -1, got %dL streak %d", loser.Losses, loser.Streak)
	}
}

func TestStreakResetsOnFlip(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(1, "first", "First")
	CreatePlayer(2, "second", "Second")

	// Win twice then lose: streak goes 1, 2, -1
	UpdateRatingsAfterMatch(1, 2)
	UpdateRatingsAfterMatch(1, 2)
	profile, _ := GetPvPProfile(1)
	if profile.Streak != 2 {
		t.Errorf("Expected streak 2, got %d", profile.Streak)
	}

	UpdateRatingsAfterMatch(2, 1)
	profile, _ = GetPvPProfile(1)
	if profile.Streak != -1 {
		t.Errorf("Expected streak reset to -1, got %d", profile.Streak)
	}
	opponent, _ := GetPvPProfile(2)
	if opponent.Streak != 1 {
		t.Errorf("Expected opponent streak reset to 1, got %d", opponent.Streak)
	}
}

func TestRecordPvPMatchAndHistory(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(1, "first", "First")
	CreatePlayer(2, "second", "Second")

	id, err := RecordPvPMatch(1, 2, 1, 2, 5000, 320, 280, "win")
	if err != nil {
		t.Fatalf("RecordPvPMatch failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected non-zero match ID")
	}

	// Draws store NULL winner and loser
	if _, err := RecordPvPMatch(1, 2, 0, 0, 1000, 300, 301, "draw"); err != nil {
		t.Fatalf("RecordPvPMatch (draw) failed: %v", err)
	}

	matches, err := GetPvPMatches(1, 10)
	if err != nil {
		t.Fatalf("GetPvPMatches failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].Outcome != "draw" || matches[0].WinnerID != 0 {
		t.Errorf("Expected newest match to be the draw, got %s winner %d", matches[0].Outcome, matches[0].WinnerID)
	}
	if matches[1].WinnerID != 1 || matches[1].Bet != 5000 {
		t.Errorf("Expected decided match winner 1 bet 5000, got %d / %.0f", matches[1].WinnerID, matches[1].Bet)
	}

	// The opponent sees the same history
	matches, _ = GetPvPMatches(2, 10)
	if len(matches) != 2 {
		t.Errorf("Expected opponent to see 2 matches, got %d", len(matches))
	}
}

func TestGetPvPTop(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(1, "low", "Low")
	CreatePlayer(2, "high", "High")
	EnsurePvPProfile(1)
	EnsurePvPProfile(2)
	UpdateRatingsAfterMatch(2, 1)

	top, err := GetPvPTop(10)
	if err != nil {
		t.Fatalf("GetPvPTop failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(top))
	}
	if top[0].UserID != 2 {
		t.Errorf("Expected player 2 on top, got %d", top[0].UserID)
	}
	if top[0].Rank != 1 || top[1].Rank != 2 {
		t.Errorf("Expected ranks 1 and 2, got %d and %d", top[0].Rank, top[1].Rank)
	}
}
