package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"station-mods/config"
	"station-mods/internal/accent"
	"station-mods/internal/api"
	"station-mods/internal/chem"
	"station-mods/internal/db"
	"station-mods/internal/recorder"
	"station-mods/internal/rng"
	"station-mods/internal/store"
	"station-mods/internal/world"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "stationd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Println("VAPID keys are not configured; push notifications are disabled")
	} else {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}

	reagents := chem.DefaultRegistry()
	if cfg.Simulation.ReagentsFile != "" {
		if reagents, err = chem.LoadRegistry(cfg.Simulation.ReagentsFile); err != nil {
			logger.Fatalf("failed to load reagents: %v", err)
		}
	}
	accents := accent.DefaultTable()
	if cfg.Simulation.AccentsFile != "" {
		if accents, err = accent.LoadTable(cfg.Simulation.AccentsFile); err != nil {
			logger.Fatalf("failed to load accents: %v", err)
		}
	}

	station := world.New(reagents, accents, rng.Seeded(cfg.Simulation.Seed), cfg.Simulation.Tick, cfg.Simulation.Timings, logger)
	if err := station.Seed(cfg.Scenario); err != nil {
		logger.Fatalf("failed to seed station: %v", err)
	}
	logger.Printf("station seeded with %d machines", len(station.Machines()))

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	// The recorder subscribes to world events, so it has to exist before the world runs.
	recorderSvc := recorder.NewService(cfg, appStore, station, webpushOptions)
	go station.Run(ctx)
	go recorderSvc.Run(ctx)

	router := api.NewRouter(cfg.Server, appStore, station, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}
	cancel()

	logger.Println("Server gracefully stopped")
}
