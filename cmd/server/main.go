package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/graphdiff/internal/config"
	"github.com/agenthands/graphdiff/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	srv := server.NewFromConfig(context.Background(), cfg, logger)
	r := srv.SetupRouter()

	logger.Info("starting server", "port", cfg.Server.Port)
	runErr := r.Run(":" + cfg.Server.Port)
	if runErr != nil {
		logger.Error("server stopped", "error", runErr)
	}
	if err := srv.Close(context.Background()); err != nil {
		logger.Error("failed to close server", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
