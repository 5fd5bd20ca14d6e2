package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/lwalter/authgate/internal/config"
	"github.com/lwalter/authgate/internal/server"
)

func main() {
	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	envConfig := config.LoadEnv()
	if err := envConfig.Validate(); err != nil {
		slog.Error("Invalid environment configuration", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(envConfig.ConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := server.Start(envConfig, cfg); err != nil {
		os.Exit(1)
	}
}
