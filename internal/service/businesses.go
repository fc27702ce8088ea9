package service

import (
	"fmt"

	"tycoonbot/internal/game"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// MaxOwnedBusinesses caps how many ventures one player may run at once
const MaxOwnedBusinesses = 2

// BusinessService handles buying, improving and selling businesses
type BusinessService struct {
	catalog *game.Catalog
}

// NewBusinessService creates a business service over the given catalog
func NewBusinessService(catalog *game.Catalog) *BusinessService {
	return &BusinessService{catalog: catalog}
}

// Buy creates a business of the given catalog type and debits the startup
// cost (ten days of base expenses) through the ledger.
func (s *BusinessService) Buy(userID int64, typeCode, name string) (int64, float64, error) {
	bt, ok := s.catalog.BusinessType(typeCode)
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown business type %q", ErrValidation, typeCode)
	}
	if len(name) < 2 {
		return 0, 0, fmt.Errorf("%w: name too short", ErrValidation)
	}

	count, err := storage.CountPlayerBusinesses(userID)
	if err != nil {
		return 0, 0, err
	}
	if count >= MaxOwnedBusinesses {
		return 0, 0, fmt.Errorf("%w: already own %d businesses", ErrValidation, count)
	}

	startupCost := bt.BaseExpenses * 10

	player, err := storage.GetPlayer(userID)
	if err != nil {
		return 0, 0, err
	}
	if player == nil {
		return 0, 0, fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}
	if player.Balance < startupCost {
		return 0, 0, fmt.Errorf("%w: startup cost %.0f exceeds balance", ErrValidation, startupCost)
	}

	businessID, err := storage.CreateBusiness(userID, typeCode, name, bt.BaseIncome, bt.BaseExpenses)
	if err != nil {
		return 0, 0, err
	}
	if err := storage.ApplyDelta(userID, businessID, -startupCost, storage.TxBusinessStartup,
		fmt.Sprintf("Launched '%s'", name)); err != nil {
		return 0, 0, err
	}

	logger.Debug(userID, "business_bought", fmt.Sprintf("business_id=%d type=%s cost=%.0f", businessID, typeCode, startupCost))
	return businessID, startupCost, nil
}

// Improve applies a catalog improvement to an owned business: recalculates
// income and expenses, persists the new improvement set, debits the cost and
// applies any popularity boost.
func (s *BusinessService) Improve(userID, businessID int64, improvementID string) error {
	imp, ok := s.catalog.Improvement(improvementID)
	if !ok {
		return fmt.Errorf("%w: unknown improvement %q", ErrValidation, improvementID)
	}

	business, err := storage.GetBusiness(businessID)
	if err != nil {
		return err
	}
	if business == nil || business.UserID != userID {
		return fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}

	for _, applied := range business.Improvements {
		if applied == improvementID {
			return fmt.Errorf("%w: improvement already applied", ErrValidation)
		}
	}

	player, err := storage.GetPlayer(userID)
	if err != nil {
		return err
	}
	if player == nil {
		return fmt.Errorf("%w: player %d", ErrNotFound, userID)
	}
	if player.Balance < imp.Cost {
		return fmt.Errorf("%w: insufficient funds for improvement", ErrValidation)
	}

	newIncome := business.Income * (1 + imp.IncomeBoost)
	newExpenses := business.Expenses * (1 + imp.ExpenseBoost)
	improvements := append(business.Improvements, improvementID)

	applied, err := storage.ApplyImprovement(businessID, userID, improvementID, newIncome, newExpenses, improvements)
	if err != nil {
		return err
	}
	if !applied {
		// Lost a race with a concurrent purchase of the same improvement
		return fmt.Errorf("%w: improvement already applied", ErrValidation)
	}

	if err := storage.ApplyDelta(userID, businessID, -imp.Cost, storage.TxImprovement,
		fmt.Sprintf("Improvement: %s", imp.Name)); err != nil {
		return err
	}
	if imp.PopularityBoost != 0 {
		if err := storage.UpdatePopularity(userID, imp.PopularityBoost); err != nil {
			return err
		}
	}

	logger.Debug(userID, "improvement_bought", fmt.Sprintf("business_id=%d improvement=%s cost=%.0f", businessID, improvementID, imp.Cost))
	return nil
}

// Sell liquidates a business at its computed sale value
func (s *BusinessService) Sell(userID, businessID int64) (float64, error) {
	business, err := storage.GetBusiness(businessID)
	if err != nil {
		return 0, err
	}
	if business == nil || business.UserID != userID {
		return 0, fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}

	value := s.catalog.BusinessSaleValue(business.Income, business.Level, business.Improvements)
	sold, err := storage.SellBusiness(userID, businessID, value)
	if err != nil {
		return 0, err
	}
	if !sold {
		return 0, fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}

	logger.Debug(userID, "business_sold", fmt.Sprintf("business_id=%d value=%.0f", businessID, value))
	return value, nil
}
