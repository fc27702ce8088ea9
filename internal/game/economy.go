package game

// Daily scale constants convert a business's base figures into per-day cash flow
const (
	DailyIncomeScale  = 0.1
	DailyExpenseScale = 0.05
)

// DailyIncome computes a business's income per day. Every applied improvement
// that defines an income boost raises the multiplier additively.
func (c *Catalog) DailyIncome(baseIncome float64, improvements []string) float64 {
	boost := 1.0
	for _, id := range improvements {
		if imp, ok := c.Improvements[id]; ok {
			boost += imp.IncomeBoost
		}
	}
	return baseIncome * boost * DailyIncomeScale
}

// DailyExpenses computes a business's expenses per day: the boosted base plus
// any fixed recurring staff cost.
func (c *Catalog) DailyExpenses(baseExpenses, staffSalary float64, improvements []string) float64 {
	boost := 1.0
	for _, id := range improvements {
		if imp, ok := c.Improvements[id]; ok {
			boost += imp.ExpenseBoost
		}
	}
	return baseExpenses*boost*DailyExpenseScale + staffSalary
}

// BusinessSaleValue prices a business for sale: ten days of income, 70% of
// the money sunk into improvements, and a flat bonus per business level.
func (c *Catalog) BusinessSaleValue(income float64, level int64, improvements []string) float64 {
	value := income * 10
	for _, id := range improvements {
		if imp, ok := c.Improvements[id]; ok {
			value += imp.Cost * 0.7
		}
	}
	value += float64(level-1) * 1000
	return value
}
