package game

import (
	"math"
	"testing"
)

func TestDailyIncome(t *testing.T) {
	c := DefaultCatalog()

	// Bare coffee shop: 1000 base at the daily scale
	income := c.DailyIncome(1000, nil)
	if income != 100 {
		t.Errorf("Expected 100, got %.2f", income)
	}

	// Equipment adds a 20% income boost
	income = c.DailyIncome(1000, []string{"equipment"})
	if math.Abs(income-120) > 0.001 {
		t.Errorf("Expected 120, got %.2f", income)
	}

	// Boosts stack additively
	income = c.DailyIncome(1000, []string{"equipment", "staff"})
	if math.Abs(income-135) > 0.001 {
		t.Errorf("Expected 135, got %.2f", income)
	}

	// Unknown improvement IDs are ignored
	income = c.DailyIncome(1000, []string{"flux_capacitor"})
	if income != 100 {
		t.Errorf("Expected unknown improvement ignored, got %.2f", income)
	}
}

func TestDailyExpenses(t *testing.T) {
	c := DefaultCatalog()

	expenses := c.DailyExpenses(500, 0, nil)
	if expenses != 25 {
		t.Errorf("Expected 25, got %.2f", expenses)
	}

	// Staff improvement raises expenses 10%; staff salary adds on top, unscaled
	expenses = c.DailyExpenses(500, 40, []string{"staff"})
	if math.Abs(expenses-67.5) > 0.001 {
		t.Errorf("Expected 67.5, got %.2f", expenses)
	}
}

func TestBusinessSaleValue(t *testing.T) {
	c := DefaultCatalog()

	// Plain level-1 business: ten days of income
	value := c.BusinessSaleValue(1000, 1, nil)
	if value != 10000 {
		t.Errorf("Expected 10000, got %.2f", value)
	}

	// Equipment cost 5000 recovers 70%, level 3 adds 2000
	value = c.BusinessSaleValue(1000, 3, []string{"equipment"})
	if math.Abs(value-15500) > 0.001 {
		t.Errorf("Expected 15500, got %.2f", value)
	}
}
