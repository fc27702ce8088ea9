package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// DefaultPriceTickInterval is the default period between investment price ticks
const DefaultPriceTickInterval = 1 * time.Minute

// GameWorker handles background tasks: investment price drift and maturity
type GameWorker struct {
	ctx         context.Context
	cancel      context.CancelFunc
	ticker      *time.Ticker
	investments *InvestmentService
}

// NewGameWorker creates a new game worker
func NewGameWorker(investments *InvestmentService) *GameWorker {
	ctx, cancel := context.WithCancel(context.Background())

	// Get configurable tick interval from environment (for testing, can be set shorter)
	interval := DefaultPriceTickInterval
	if tickStr := os.Getenv("PRICE_TICK_MINUTES"); tickStr != "" {
		if minutes, err := strconv.Atoi(tickStr); err == nil && minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
			logger.Debug(0, "game_worker_config", fmt.Sprintf("tick_interval=%d minutes", minutes))
		}
	}

	return &GameWorker{
		ctx:         ctx,
		cancel:      cancel,
		ticker:      time.NewTicker(interval),
		investments: investments,
	}
}

// Start begins the background worker
func (w *GameWorker) Start() {
	logger.Debug(0, "game_worker_started", "")

	// Run immediately on start
	w.tickInvestments()

	// Then run on ticker
	go func() {
		for {
			select {
			case <-w.ticker.C:
				w.tickInvestments()
			case <-w.ctx.Done():
				logger.Debug(0, "game_worker_stopped", "")
				return
			}
		}
	}()
}

// Stop stops the background worker
func (w *GameWorker) Stop() {
	w.ticker.Stop()
	w.cancel()
}

// tickInvestments drifts active investment values and promotes matured ones
func (w *GameWorker) tickInvestments() {
	if storage.DB() == nil {
		logger.Debug(0, "game_worker_no_db", "")
		return
	}

	if err := w.investments.TickPrices(); err != nil {
		logger.Debug(0, "game_worker_tick_failed", fmt.Sprintf("error=%s", err.Error()))
		return
	}

	matured, err := w.investments.MarkMatured()
	if err != nil {
		logger.Debug(0, "game_worker_mature_failed", fmt.Sprintf("error=%s", err.Error()))
		return
	}
	if matured > 0 {
		logger.Debug(0, "game_worker_matured", fmt.Sprintf("count=%d", matured))
	}
}
