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

	"equipment-booking-backend/config"
	"equipment-booking-backend/internal/api"
	"equipment-booking-backend/internal/booking"
	"equipment-booking-backend/internal/db"
	"equipment-booking-backend/internal/monitor"
	"equipment-booking-backend/internal/notification"
)

func main() {
	logger := log.New(os.Stdout, "equipment-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}
	webpushOptions := monitor.WebpushOptions(cfg)

	loc, err := time.LoadLocation(cfg.Monitor.Timezone)
	if err != nil {
		logger.Fatalf("invalid timezone %q: %v", cfg.Monitor.Timezone, err)
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := booking.New(gormDB, booking.SystemClock(), loc)
	logger.Println("scheduling engine initialized")

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
	overdueMonitor := monitor.New(cfg, engine, workerPool)
	go overdueMonitor.Run(ctx)

	router := api.NewRouter(gormDB, engine, &cfg.Server, webpushOptions)
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

	logger.Println("Server gracefully stopped")
}
