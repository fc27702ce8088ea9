package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"tycoonbot/internal/auth"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/storage"
)

// HandleHistory handles GET /api/history, the caller's recent transactions
func HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		logger.Debug(0, "history_invalid_method", "method="+r.Method)
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		logger.Debug(0, "history_unauthorized", "path="+r.URL.Path)
		respondWithError(w, "Unauthorized: user not in context", http.StatusUnauthorized)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	transactions, err := storage.GetTransactions(userID, limit)
	if err != nil {
		logger.Debug(userID, "history_error", "error="+err.Error())
		respondWithError(w, "Failed to fetch transactions", http.StatusInternalServerError)
		return
	}

	logger.Debug(userID, "history_success", fmt.Sprintf("count=%d", len(transactions)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(transactions)
}
