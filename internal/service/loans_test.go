package service

import (
	"errors"
	"testing"

	"tycoonbot/internal/storage"
)

// eligiblePlayer creates a player whose credit score clears the gate
func eligiblePlayer(t *testing.T, userID int64) {
	t.Helper()
	if _, err := storage.CreatePlayer(userID, "borrower", "Borrower"); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	// Level 5 with default popularity scores 300+250+100 = 650
	if err := storage.ApplyLevelUp(userID, 5, 0, 0, 0); err != nil {
		t.Fatalf("ApplyLevelUp failed: %v", err)
	}
}

func TestLoanIssueAndRepay(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	eligiblePlayer(t, 100)
	svc := NewLoanService()

	issued, err := svc.Issue(100, 5000, 14)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if issued.InterestRate != 0.03 {
		t.Errorf("Expected 3%% rate at score 650, got %.2f", issued.InterestRate)
	}
	// Disclosed interest: 5000 * 0.03 * 14
	if issued.TotalInterest != 2100 {
		t.Errorf("Expected disclosed interest 2100, got %.0f", issued.TotalInterest)
	}

	// Principal lands on the balance
	player, _ := storage.GetPlayer(100)
	if player.Balance != storage.StartingBalance+5000 {
		t.Errorf("Expected balance %.0f, got %.0f", storage.StartingBalance+5000, player.Balance)
	}

	// Interest is disclosed only; repaying the principal closes the loan
	paid, remaining, err := svc.Repay(100, issued.LoanID, 5000)
	if err != nil {
		t.Fatalf("Repay failed: %v", err)
	}
	if paid != 5000 || remaining != 0 {
		t.Errorf("Expected paid 5000 remaining 0, got %.0f / %.0f", paid, remaining)
	}

	player, _ = storage.GetPlayer(100)
	if player.Balance != storage.StartingBalance {
		t.Errorf("Expected balance back to %.0f, got %.0f", storage.StartingBalance, player.Balance)
	}

	loans, _ := svc.ActiveLoans(100)
	if len(loans) != 0 {
		t.Errorf("Expected no active loans, got %d", len(loans))
	}
}

func TestLoanRepayClampsOverpayment(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	eligiblePlayer(t, 100)
	svc := NewLoanService()
	issued, _ := svc.Issue(100, 5000, 7)

	paid, _, err := svc.Repay(100, issued.LoanID, 99999)
	if err != nil {
		t.Fatalf("Repay failed: %v", err)
	}
	if paid != 5000 {
		t.Errorf("Expected paid clamped to 5000, got %.0f", paid)
	}

	// Only the clamped amount left the balance
	player, _ := storage.GetPlayer(100)
	if player.Balance != storage.StartingBalance {
		t.Errorf("Expected balance %.0f, got %.0f", storage.StartingBalance, player.Balance)
	}
}

func TestLoanIneligibleLowScore(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	// Fresh level-1 player scores 450 with default popularity, below the gate
	storage.CreatePlayer(100, "newbie", "Newbie")
	svc := NewLoanService()

	_, err := svc.Issue(100, 1000, 7)
	if !errors.Is(err, ErrIneligible) {
		t.Errorf("Expected ErrIneligible, got %v", err)
	}
}

func TestLoanIneligibleOversized(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	eligiblePlayer(t, 100)
	svc := NewLoanService()

	// More than twice the balance
	_, err := svc.Issue(100, storage.StartingBalance*2+1, 7)
	if !errors.Is(err, ErrIneligible) {
		t.Errorf("Expected ErrIneligible, got %v", err)
	}
}

func TestLoanRepayForeign(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	eligiblePlayer(t, 100)
	storage.CreatePlayer(200, "other", "Other")
	svc := NewLoanService()
	issued, _ := svc.Issue(100, 5000, 7)

	_, _, err := svc.Repay(200, issued.LoanID, 1000)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a foreign loan, got %v", err)
	}
}

func TestLoanIssueRejectsBadInput(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	eligiblePlayer(t, 100)
	svc := NewLoanService()

	if _, err := svc.Issue(100, -5, 7); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for negative amount, got %v", err)
	}
	if _, err := svc.Issue(100, 1000, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero term, got %v", err)
	}
}
