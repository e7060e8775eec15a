package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"PhasePulse/internal/di"
	"PhasePulse/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envPath := flag.String("env", ".env", "env file path")
	flag.Parse()

	// Optional .env; real environments set variables directly
	if err := godotenv.Load(*envPath); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load %s: %v", *envPath, err)
	}

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s symbols=%v default=%s", cfg.Environment, cfg.Symbols, cfg.Market.DefaultSymbol)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
