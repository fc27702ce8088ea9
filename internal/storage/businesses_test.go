package storage

import (
	"testing"
)

func TestCreateAndGetBusiness(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "owner", "Owner")

	id, err := CreateBusiness(100, "coffee_shop", "Bean There", 1000, 500)
	if err != nil {
		t.Fatalf("CreateBusiness failed: %v", err)
	}

	business, err := GetBusiness(id)
	if err != nil {
		t.Fatalf("GetBusiness failed: %v", err)
	}
	if business == nil {
		t.Fatal("Expected business, got nil")
	}
	if business.Name != "Bean There" {
		t.Errorf("Expected name 'Bean There', got %s", business.Name)
	}
	if business.Income != 1000 || business.Expenses != 500 {
		t.Errorf("Expected income/expenses 1000/500, got %.0f/%.0f", business.Income, business.Expenses)
	}
	if len(business.Improvements) != 0 {
		t.Errorf("Expected no improvements, got %v", business.Improvements)
	}
}

func TestCountPlayerBusinesses(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "owner", "Owner")
	CreateBusiness(100, "coffee_shop", "First", 1000, 500)
	CreateBusiness(100, "farm", "Second", 800, 300)

	count, err := CountPlayerBusinesses(100)
	if err != nil {
		t.Fatalf("CountPlayerBusinesses failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 businesses, got %d", count)
	}
}

func TestApplyImprovement(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "owner", "Owner")
	id, _ := CreateBusiness(100, "coffee_shop", "Bean There", 1000, 500)

	ok, err := ApplyImprovement(id, 100, "equipment", 1200, 500, []string{"equipment"})
	if err != nil {
		t.Fatalf("ApplyImprovement failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected improvement to apply")
	}

	business, _ := GetBusiness(id)
	if business.Income != 1200 {
		t.Errorf("Expected income 1200, got %.0f", business.Income)
	}
	if len(business.Improvements) != 1 || business.Improvements[0] != "equipment" {
		t.Errorf("Expected improvements [equipment], got %v", business.Improvements)
	}

	// Same improvement cannot land twice
	ok, err = ApplyImprovement(id, 100, "equipment", 1440, 500, []string{"equipment", "equipment"})
	if err != nil {
		t.Fatalf("ApplyImprovement (repeat) failed: %v", err)
	}
	if ok {
		t.Error("Expected repeat improvement to be rejected")
	}
}

func TestApplyImprovementForeignOwner(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "owner", "Owner")
	CreatePlayer(200, "other", "Other")
	id, _ := CreateBusiness(100, "coffee_shop", "Bean There", 1000, 500)

	ok, err := ApplyImprovement(id, 200, "equipment", 1200, 500, []string{"equipment"})
	if err != nil {
		t.Fatalf("ApplyImprovement failed: %v", err)
	}
	if ok {
		t.Error("Expected a foreign owner's improvement to be rejected")
	}
}

func TestSellBusiness(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "owner", "Owner")
	id, _ := CreateBusiness(100, "coffee_shop", "Bean There", 1000, 500)
	CreateProduction(id, "IT", "Leftover", 1, 30, 1, nil)

	ok, err := SellBusiness(100, id, 12000)
	if err != nil {
		t.Fatalf("SellBusiness failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected sale to succeed")
	}

	business, _ := GetBusiness(id)
	if business != nil {
		t.Error("Expected business deleted after sale")
	}
	productions, _ := GetBusinessProductions(id)
	if len(productions) != 0 {
		t.Errorf("Expected productions deleted with the business, got %d", len(productions))
	}

	player, _ := GetPlayer(100)
	if player.Balance != StartingBalance+12000 {
		t.Errorf("Expected balance %.0f, got %.0f", StartingBalance+12000, player.Balance)
	}

	// Selling again is a no-op
	ok, _ = SellBusiness(100, id, 12000)
	if ok {
		t.Error("Expected second sale to fail")
	}
}

func TestSellBusinessForeignOwner(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	CreatePlayer(100, "owner", "Owner")
	CreatePlayer(200, "other", "Other")
	id, _ := CreateBusiness(100, "coffee_shop", "Bean There", 1000, 500)

	ok, err := SellBusiness(200, id, 12000)
	if err != nil {
		t.Fatalf("SellBusiness failed: %v", err)
	}
	if ok {
		t.Error("Expected a foreign owner's sale to fail")
	}
	business, _ := GetBusiness(id)
	if business == nil {
		t.Error("Expected business untouched")
	}
}
