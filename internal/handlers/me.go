package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tycoonbot/internal/auth"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// ProfileResponse is the response for the GET /api/me endpoint
type ProfileResponse struct {
	UserID        int64              `json:"user_id"`
	Username      string             `json:"username"`
	FirstName     string             `json:"first_name"`
	Balance       float64            `json:"balance"`
	TotalIncome   float64            `json:"total_income"`
	TotalExpenses float64            `json:"total_expenses"`
	Level         int64              `json:"level"`
	Experience    int64              `json:"experience"`
	Popularity    float64            `json:"popularity"`
	Businesses    []storage.Business `json:"businesses"`
}

// HandleMe handles the GET /api/me endpoint
func HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		logger.Debug(0, "me_invalid_method", "method="+r.Method)
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		logger.Debug(0, "me_unauthorized", "path="+r.URL.Path)
		respondWithError(w, "Unauthorized: user not in context", http.StatusUnauthorized)
		return
	}

	player, err := storage.GetPlayer(userID)
	if err != nil {
		logger.Debug(userID, "me_error", "error="+err.Error())
		respondWithError(w, "Failed to get player", http.StatusInternalServerError)
		return
	}
	if player == nil {
		logger.Debug(userID, "me_not_found", "")
		respondWithError(w, "Player not found", http.StatusNotFound)
		return
	}

	businesses, err := storage.GetPlayerBusinesses(userID)
	if err != nil {
		logger.Debug(userID, "me_businesses_error", "error="+err.Error())
		respondWithError(w, "Failed to get businesses", http.StatusInternalServerError)
		return
	}

	response := ProfileResponse{
		UserID:        player.UserID,
		Username:      player.Username,
		FirstName:     player.FirstName,
		Balance:       player.Balance,
		TotalIncome:   player.TotalIncome,
		TotalExpenses: player.TotalExpenses,
		Level:         player.Level,
		Experience:    player.Experience,
		Popularity:    player.Popularity,
		Businesses:    businesses,
	}

	logger.Debug(userID, "me_success", fmt.Sprintf("balance=%.0f level=%d businesses=%d", player.Balance, player.Level, len(businesses)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
