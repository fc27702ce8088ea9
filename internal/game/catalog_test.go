package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if len(c.BusinessTypes) != 5 {
		t.Errorf("Expected 5 business types, got %d", len(c.BusinessTypes))
	}

	bt, ok := c.BusinessType("coffee_shop")
	if !ok {
		t.Fatal("Expected coffee_shop in the catalog")
	}
	if bt.BaseIncome != 1000 || bt.BaseExpenses != 500 {
		t.Errorf("Expected coffee shop 1000/500, got %.0f/%.0f", bt.BaseIncome, bt.BaseExpenses)
	}

	imp, ok := c.Improvement("equipment")
	if !ok {
		t.Fatal("Expected equipment in the catalog")
	}
	if imp.Cost != 5000 || imp.IncomeBoost != 0.2 {
		t.Errorf("Expected equipment 5000 / +0.2, got %.0f / %.2f", imp.Cost, imp.IncomeBoost)
	}

	job, ok := c.ProductionJob("farm_harvest")
	if !ok {
		t.Fatal("Expected farm_harvest in the catalog")
	}
	if job.ProdType != "FARM" || job.Quantity != 200 {
		t.Errorf("Expected FARM x200, got %s x%.0f", job.ProdType, job.Quantity)
	}

	if _, ok := c.BusinessType("casino"); ok {
		t.Error("Did not expect an unknown business type")
	}
}

func TestLoadCatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	contents := `business_types:
  kiosk:
    name: Kiosk
    base_income: 100
    base_expenses: 40
improvements:
  paint:
    name: Fresh Paint
    cost: 50
    income_boost: 0.05
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if _, ok := c.BusinessType("kiosk"); !ok {
		t.Error("Expected kiosk in the loaded catalog")
	}
}

func TestLoadCatalogRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	// Missing improvements section entirely
	contents := `business_types:
  kiosk:
    name: Kiosk
    base_income: 100
    base_expenses: 40
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Error("Expected validation error for a catalog without improvements")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
