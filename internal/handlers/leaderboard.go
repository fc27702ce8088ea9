package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// HandleLeaderboard handles GET /api/leaderboard
func HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		logger.Debug(0, "leaderboard_invalid_method", "method="+r.Method+" path="+r.URL.Path)
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Top 20 players by balance
	leaderboard, err := storage.GetTopPlayers(20)
	if err != nil {
		logger.Debug(0, "leaderboard_error", "error="+err.Error())
		respondWithError(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}

	logger.Debug(0, "leaderboard_success", fmt.Sprintf("count=%d", len(leaderboard)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(leaderboard)
}

// HandlePvPLeaderboard handles GET /api/pvp/top
func HandlePvPLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		logger.Debug(0, "pvp_top_invalid_method", "method="+r.Method+" path="+r.URL.Path)
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	top, err := storage.GetPvPTop(20)
	if err != nil {
		logger.Debug(0, "pvp_top_error", "error="+err.Error())
		respondWithError(w, "Failed to fetch pvp leaderboard", http.StatusInternalServerError)
		return
	}

	logger.Debug(0, "pvp_top_success", fmt.Sprintf("count=%d", len(top)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(top)
}
