package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fr0stylo/stocksync/internal/adapters/rediscache"
	"github.com/fr0stylo/stocksync/internal/adapters/sqlite"
	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/app/services"
	"github.com/fr0stylo/stocksync/internal/config"
	"github.com/fr0stylo/stocksync/internal/db"
	"github.com/fr0stylo/stocksync/internal/server"
	"github.com/fr0stylo/stocksync/internal/server/routes"
	"github.com/fr0stylo/stocksync/pkg/eventpublisher"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return
	}
	if cfg.IsLocalDevelopment() {
		slog.Warn("Running with local development defaults")
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	store := sqlite.NewInventoryStore(database)
	verifier := services.NewSignatureVerifier(cfg.Webhook.Secret)

	var notifier ports.ChangeNotifier
	if cfg.Publisher.Endpoint != "" {
		notifier = eventpublisher.Client{
			Endpoint: cfg.Publisher.Endpoint,
			Secret:   cfg.Publisher.Secret,
			Timeout:  cfg.PublishTimeout(),
		}
		slog.Info("Change notifications enabled", "endpoint", cfg.Publisher.Endpoint)
	}

	var dedup ports.DedupCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Warn("Redis unreachable, delivery dedup disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			dedup = rediscache.NewDedupCache(client)
			slog.Info("Delivery dedup enabled", "addr", cfg.Redis.Addr)
		}
	}

	ingest := services.NewIngestionService(store, verifier, notifier, log)
	read := services.NewInventoryReadService(store)

	srv := server.New(log)
	srv.RegisterRouter(routes.NewWebhookRoutes(ingest, dedup, cfg.Webhook.Topic, log))
	srv.RegisterRouter(routes.NewInventoryRoutes(read))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port, "topic", cfg.Webhook.Topic)
	slog.Error("Closing server", "error", srv.Start(addr))
}
