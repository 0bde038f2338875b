package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/madanco/crewdeck/api"
	dbfs "github.com/madanco/crewdeck/db"
	"github.com/madanco/crewdeck/internal/config"
	"github.com/madanco/crewdeck/internal/db"
	"github.com/madanco/crewdeck/internal/kvstore"
	"github.com/madanco/crewdeck/internal/notify"
	"github.com/madanco/crewdeck/internal/store"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting CrewDeck server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open the key-value backend
	var (
		kv      kvstore.Store
		cleanup func() error
	)
	switch cfg.Backend {
	case "redis":
		rs, err := kvstore.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		kv, cleanup = rs, rs.Close
	default:
		database, err := db.New(ctx, cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open DB: %v", err)
		}
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
		kv, cleanup = kvstore.NewSQLite(database), database.Close
	}

	repo := store.New(kv, logger)
	if err := repo.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	// Background delivery: worker pool plus the reminder scanner feeding it.
	pool := notify.NewWorkerPool(repo, notify.DefaultHandlers(notify.LogSink(logger)), logger, cfg.Notify.Workers)
	pool.Start(ctx)
	scanner := notify.NewReminderScanner(repo, repo, logger, cfg.Notify.ScanInterval)
	scanner.Start(ctx)

	handler := api.SetupRoutes(cfg, version, buildTime, repo)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	scanner.Stop()
	pool.Stop()

	if err := cleanup(); err != nil {
		log.Printf("Error closing store backend: %v", err)
	}

	log.Println("Server exited")
}
