package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tycoonbot/internal/auth"
	"tycoonbot/internal/bot"
	"tycoonbot/internal/handlers"
	"tycoonbot/internal/service"
	"tycoonbot/internal/storage"
)

func main() {
	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize SQLite database
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "/app/data/tycoon.db"
	}
	log.Printf("Initializing database at: %s", dbPath)
	if err := storage.InitDB(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer storage.CloseDB()

	// Start bot in a goroutine
	go bot.StartBot()

	// Start background worker for investment price ticks and maturities
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gameWorker := service.NewGameWorker(service.NewInvestmentService(rng))
	gameWorker.Start()
	defer gameWorker.Stop()

	// Set up HTTP server with auth middleware
	mux := http.NewServeMux()

	// Read-only API routes behind Telegram initData auth
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/ping", handlers.HandlePing)
	apiMux.HandleFunc("/me", handlers.HandleMe)
	apiMux.HandleFunc("/history", handlers.HandleHistory)
	apiMux.HandleFunc("/leaderboard", handlers.HandleLeaderboard)
	apiMux.HandleFunc("/pvp/top", handlers.HandlePvPLeaderboard)

	mux.Handle("/api/", auth.Middleware(http.StripPrefix("/api", apiMux)))

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
