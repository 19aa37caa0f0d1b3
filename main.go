package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/camden-git/dwhbackend/config"
	"github.com/camden-git/dwhbackend/database"
	"github.com/camden-git/dwhbackend/handlers"
	"github.com/camden-git/dwhbackend/logging"
	"github.com/camden-git/dwhbackend/services"
)

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	logging.Setup(logging.ParseLevel(cfg.LogLevel))
	if envErr != nil {
		slog.Info("No .env file found or error loading", "error", envErr)
	}
	if err != nil {
		fatal("Failed to load configuration", "error", err)
	}

	if cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
			fatal("Failed to create database directory", "path", cfg.DatabasePath, "error", err)
		}
	}

	db, err := database.Open(cfg.DatabasePath, logging.ParseGormLevel(cfg.DBLogLevel))
	if err != nil {
		fatal("Failed to initialize database", "error", err)
	}
	defer database.Close(db)

	if sqlDB, err := db.DB(); err == nil {
		counts, err := database.TableCounts(context.Background(), sqlDB)
		if err != nil {
			slog.Warn("Failed to read warehouse row counts", "error", err)
		} else {
			slog.Info("Warehouse ready",
				"people", counts["people"],
				"vehicles", counts["vehicles"],
				"person_vehicles", counts["person_vehicles"],
			)
		}
	}

	ingestHandler := &handlers.IngestHandler{
		Service:      services.NewDefaultIngestionService(db, cfg.AtomicIngestion),
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	router := handlers.NewRouter(ingestHandler, handlers.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		AccessLog:      true,
	})

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening",
			"address", serverAddr,
			"url", fmt.Sprintf("http://localhost:%s", cfg.Port),
			"database", cfg.DatabasePath,
			"atomic_ingestion", cfg.AtomicIngestion,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
