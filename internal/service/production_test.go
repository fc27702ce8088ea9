package service

import (
	"errors"
	"math/rand"
	"testing"

	"tycoonbot/internal/game"
	"tycoonbot/internal/storage"
)

func productionSetup(t *testing.T) (*ProductionService, int64) {
	t.Helper()
	if _, err := storage.CreatePlayer(100, "producer", "Producer"); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	businessID, err := storage.CreateBusiness(100, "it_startup", "DevShop", 3000, 800)
	if err != nil {
		t.Fatalf("CreateBusiness failed: %v", err)
	}
	svc := NewProductionService(game.DefaultCatalog(), rand.New(rand.NewSource(7)))
	return svc, businessID
}

func TestProductionStart(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	svc, businessID := productionSetup(t)

	id, err := svc.Start(100, businessID, "it_app")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	runs, err := svc.List(100, businessID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Fatalf("Expected the started run in the list, got %+v", runs)
	}
	if runs[0].Status != storage.ProductionStatusInProgress {
		t.Errorf("Expected status in_progress, got %s", runs[0].Status)
	}
}

func TestProductionStartRejections(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	svc, businessID := productionSetup(t)
	storage.CreatePlayer(200, "rival", "Rival")

	if _, err := svc.Start(100, businessID, "ghost_job"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown job, got %v", err)
	}
	if _, err := svc.Start(200, businessID, "it_app"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound starting on a foreign business, got %v", err)
	}
	if _, err := svc.Start(100, 9999, "it_app"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing business, got %v", err)
	}
}

func TestProductionCollectNotReady(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	svc, businessID := productionSetup(t)
	id, _ := svc.Start(100, businessID, "it_erp")

	if _, err := svc.Collect(100, id); !errors.Is(err, ErrStateConflict) {
		t.Errorf("Expected ErrStateConflict collecting an unfinished run, got %v", err)
	}
}

func TestProductionCollectCreditsReward(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	svc, businessID := productionSetup(t)

	// Zero-duration run is ready immediately
	id, err := storage.CreateProduction(businessID, "IT", "Mobile App", 1, 0, 1, nil)
	if err != nil {
		t.Fatalf("CreateProduction failed: %v", err)
	}

	reward, err := svc.Collect(100, id)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	// Flat base 20000 scaled by the outcome factor
	if reward < -16000 || reward > 200000 || reward == 0 {
		t.Errorf("Reward %.2f outside the expected envelope", reward)
	}

	player, _ := storage.GetPlayer(100)
	if player.Balance != storage.StartingBalance+reward {
		t.Errorf("Expected balance %.2f, got %.2f", storage.StartingBalance+reward, player.Balance)
	}

	// A settled run cannot pay twice
	if _, err := svc.Collect(100, id); !errors.Is(err, ErrStateConflict) {
		t.Errorf("Expected ErrStateConflict on repeat collect, got %v", err)
	}
}

func TestProductionCollectForeign(t *testing.T) {
	setupTestDB(t)
	defer cleanupTestDB(t)

	_, businessID := productionSetup(t)
	storage.CreatePlayer(200, "rival", "Rival")
	svc := NewProductionService(game.DefaultCatalog(), rand.New(rand.NewSource(7)))

	id, _ := storage.CreateProduction(businessID, "IT", "Mobile App", 1, 0, 1, nil)
	if _, err := svc.Collect(200, id); !errors.Is(err, ErrStateConflict) {
		t.Errorf("Expected ErrStateConflict collecting a foreign run, got %v", err)
	}
}
