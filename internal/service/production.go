package service

import (
	"fmt"
	"math/rand"

	"tycoonbot/internal/game"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// ProductionService starts and settles production jobs on businesses
type ProductionService struct {
	catalog *game.Catalog
	rng     *rand.Rand
}

// NewProductionService creates a new production service
func NewProductionService(catalog *game.Catalog, rng *rand.Rand) *ProductionService {
	return &ProductionService{catalog: catalog, rng: rng}
}

// Start launches a catalog job on one of the caller's businesses
func (s *ProductionService) Start(userID, businessID int64, jobCode string) (int64, error) {
	job, ok := s.catalog.ProductionJob(jobCode)
	if !ok {
		return 0, fmt.Errorf("%w: unknown production job %q", ErrValidation, jobCode)
	}

	business, err := storage.GetBusiness(businessID)
	if err != nil {
		return 0, err
	}
	if business == nil || business.UserID != userID {
		return 0, fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}

	id, err := storage.CreateProduction(businessID, job.ProdType, job.Name, job.Version, job.DurationMinutes, job.Quantity, nil)
	if err != nil {
		return 0, err
	}

	logger.Debug(userID, "production_started", fmt.Sprintf("id=%d business=%d job=%s", id, businessID, jobCode))
	return id, nil
}

// Collect settles a finished job exactly once and credits the reward through
// the ledger. A job that is not ready yet, already collected, or owned by
// someone else all surface the same ErrStateConflict.
func (s *ProductionService) Collect(userID, productionID int64) (float64, error) {
	prod, ok, err := storage.CollectProduction(productionID, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: production %d is not collectable", ErrStateConflict, productionID)
	}

	reward := game.ProductionReward(s.rng, prod.ProdType, prod.Quantity)
	if err := storage.ApplyDelta(userID, prod.BusinessID, reward, storage.TxProduction, fmt.Sprintf("%s run #%d", prod.Name, productionID)); err != nil {
		return 0, err
	}

	logger.Debug(userID, "production_collected", fmt.Sprintf("id=%d reward=%.0f", productionID, reward))
	return reward, nil
}

// List returns the production history of one of the caller's businesses
func (s *ProductionService) List(userID, businessID int64) ([]storage.Production, error) {
	business, err := storage.GetBusiness(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil || business.UserID != userID {
		return nil, fmt.Errorf("%w: business %d", ErrNotFound, businessID)
	}
	return storage.GetBusinessProductions(businessID)
}
