package game

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// BusinessType describes one purchasable venture kind
type BusinessType struct {
	Name         string  `yaml:"name"`
	Emoji        string  `yaml:"emoji"`
	BaseIncome   float64 `yaml:"base_income"`
	BaseExpenses float64 `yaml:"base_expenses"`
	GrowthRate   float64 `yaml:"growth_rate"`
	RiskLevel    string  `yaml:"risk_level"`
	Description  string  `yaml:"description"`
}

// Improvement describes a named, at-most-once-per-business modifier
type Improvement struct {
	Name            string  `yaml:"name"`
	Cost            float64 `yaml:"cost"`
	IncomeBoost     float64 `yaml:"income_boost"`
	ExpenseBoost    float64 `yaml:"expense_boost"`
	PopularityBoost float64 `yaml:"popularity_boost"`
	Description     string  `yaml:"description"`
}

// ProductionJob describes a startable timed job preset
type ProductionJob struct {
	Name            string  `yaml:"name"`
	ProdType        string  `yaml:"prod_type"`
	DurationMinutes int64   `yaml:"duration_minutes"`
	Quantity        float64 `yaml:"quantity"`
	Version         int64   `yaml:"version"`
}

// Catalog is the enumerated game configuration: business types,
// improvements and production job presets, validated once at load time so
// call sites never deal with unknown keys.
type Catalog struct {
	BusinessTypes  map[string]BusinessType  `yaml:"business_types"`
	Improvements   map[string]Improvement   `yaml:"improvements"`
	ProductionJobs map[string]ProductionJob `yaml:"production_jobs"`
}

// DefaultCatalog parses the embedded catalog. It panics on a broken embed
// since that is a build defect, not a runtime condition.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// LoadCatalog reads and validates a catalog override from disk
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCatalog(raw)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.BusinessTypes) == 0 {
		return fmt.Errorf("no business types defined")
	}
	for code, bt := range c.BusinessTypes {
		if bt.Name == "" {
			return fmt.Errorf("business type %q: empty name", code)
		}
		if bt.BaseIncome <= 0 || bt.BaseExpenses < 0 {
			return fmt.Errorf("business type %q: invalid income/expenses", code)
		}
	}
	if len(c.Improvements) == 0 {
		return fmt.Errorf("no improvements defined")
	}
	for code, imp := range c.Improvements {
		if imp.Name == "" {
			return fmt.Errorf("improvement %q: empty name", code)
		}
		if imp.Cost <= 0 {
			return fmt.Errorf("improvement %q: cost must be positive", code)
		}
		if imp.IncomeBoost <= -1 || imp.ExpenseBoost <= -1 {
			return fmt.Errorf("improvement %q: boost below -100%%", code)
		}
	}
	for code, job := range c.ProductionJobs {
		if job.Name == "" || job.ProdType == "" {
			return fmt.Errorf("production job %q: empty name or type", code)
		}
		if job.DurationMinutes <= 0 {
			return fmt.Errorf("production job %q: duration must be positive", code)
		}
		if job.Quantity < 0 {
			return fmt.Errorf("production job %q: negative quantity", code)
		}
	}
	return nil
}

// BusinessType looks up a venture kind by code
func (c *Catalog) BusinessType(code string) (BusinessType, bool) {
	bt, ok := c.BusinessTypes[code]
	return bt, ok
}

// Improvement looks up an improvement by id
func (c *Catalog) Improvement(id string) (Improvement, bool) {
	imp, ok := c.Improvements[id]
	return imp, ok
}

// ProductionJob looks up a job preset by code
func (c *Catalog) ProductionJob(code string) (ProductionJob, bool) {
	job, ok := c.ProductionJobs[code]
	return job, ok
}
