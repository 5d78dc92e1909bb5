// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/avelinoh/amoretrack/internal/common/database"
	"github.com/avelinoh/amoretrack/internal/common/utils"
	"github.com/avelinoh/amoretrack/internal/config"
	"github.com/avelinoh/amoretrack/internal/interaction"
	"github.com/avelinoh/amoretrack/internal/lead"
	"github.com/avelinoh/amoretrack/internal/realtime"
	"github.com/avelinoh/amoretrack/internal/remote"
	"github.com/avelinoh/amoretrack/internal/settings"
	"github.com/avelinoh/amoretrack/internal/store"
	"github.com/avelinoh/amoretrack/internal/syncer"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("configuration validation failed: ", err)
	}

	// 3. Build the logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer logger.Sync()

	logger.Info("starting amoretrack API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	// 4. Open the local store
	localStore, cleanup, err := newLocalStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open local store", zap.Error(err))
	}
	defer cleanup()

	// 5. Open the remote store
	remoteStore, err := newRemoteStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open remote store", zap.Error(err))
	}

	// 6. Build the sync coordinator
	coordinator := syncer.New(localStore, remoteStore, cfg.RemoteWriteTimeout, logger)
	defer coordinator.Close()

	// 7. Build repositories and services
	leadRepo := lead.NewMemoryRepository()
	interactionRepo := interaction.NewMemoryRepository()

	leadService := lead.NewService(leadRepo, coordinator, logger, nil)
	interactionService := interaction.NewService(interactionRepo, leadService, coordinator, logger, nil)
	settingsService := settings.NewService(coordinator, logger, nil)

	// Wire the interaction ledger in after construction so lead
	// deletes can cascade without a package cycle.
	leadService.SetLedger(interactionService)

	// 8. Load the startup snapshot, remote winning over local
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	data, err := coordinator.LoadAll(bootCtx)
	bootCancel()
	if err != nil {
		logger.Fatal("failed to load startup snapshot", zap.Error(err))
	}
	leadService.ReplaceAll(data.Leads)
	interactionService.ReplaceAll(data.Interactions)
	settingsService.Replace(data.Settings)

	logger.Info("snapshot loaded",
		zap.Int("leads", len(data.Leads)),
		zap.Int("interactions", len(data.Interactions)))

	// 9. Start the websocket hub
	hub := realtime.NewHub(logger)
	go hub.Run()
	wsHandler := realtime.NewHandler(hub, cfg.AllowedOrigins, logger)

	// 10. Subscribe to remote changes
	subCtx, subCancel := context.WithCancel(context.Background())
	defer subCancel()

	applySnapshot := func(data syncer.AppData) {
		leadService.ReplaceAll(data.Leads)
		interactionService.ReplaceAll(data.Interactions)
		settingsService.Replace(data.Settings)
		hub.Broadcast(realtime.EventSnapshot, map[string]interface{}{
			"leads":        len(data.Leads),
			"interactions": len(data.Interactions),
		})
	}
	if err := coordinator.Subscribe(subCtx, applySnapshot); err != nil {
		logger.Warn("remote subscription unavailable, live updates disabled", zap.Error(err))
	}

	// 11. Build handlers and routes
	leadHandler := lead.NewHandler(leadService)
	interactionHandler := interaction.NewHandler(interactionService)
	settingsHandler := settings.NewHandler(settingsService)
	syncHandler := syncer.NewHandler(coordinator, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", healthCheck)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/ws", wsHandler.ServeWS)

	router.Route("/api/v1", func(r chi.Router) {
		lead.RegisterRoutes(r, leadHandler)
		interaction.RegisterRoutes(r, interactionHandler)
		settings.RegisterRoutes(r, settingsHandler)
		syncer.RegisterRoutes(r, syncHandler)
	})

	// 12. Create and start the HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	hub.Shutdown()
	subCancel()
	coordinator.Close()

	logger.Info("server exited gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newLocalStore opens the configured local store backend. The
// returned cleanup closes any underlying connection.
func newLocalStore(cfg *config.Config, logger *zap.Logger) (store.Local, func(), error) {
	noop := func() {}

	switch cfg.LocalStoreDriver {
	case "file":
		fs, err := store.NewFileStore(cfg.LocalStorePath)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using file local store", zap.String("path", cfg.LocalStorePath))
		return fs, noop, nil

	case "redis":
		client, err := database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using redis local store")
		return store.NewRedisStore(client), func() { client.Close() }, nil

	case "postgres":
		db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		pg := store.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		logger.Info("using postgres local store")
		return pg, func() { db.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown local store driver: %s", cfg.LocalStoreDriver)
	}
}

// newRemoteStore opens the configured remote store. The mock driver
// keeps everything in process for development.
func newRemoteStore(cfg *config.Config, logger *zap.Logger) (remote.Store, error) {
	switch cfg.RemoteDriver {
	case "firestore":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		fs, err := remote.NewFirestoreStore(ctx, &remote.FirestoreConfig{
			ProjectID:  cfg.FirestoreProjectID,
			CredsFile:  cfg.FirestoreCredsFile,
			Collection: cfg.FirestoreCollection,
			DocID:      cfg.FirestoreDocID,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using firestore remote store",
			zap.String("project", cfg.FirestoreProjectID),
			zap.String("collection", cfg.FirestoreCollection))
		return fs, nil

	case "mock":
		logger.Warn("using mock remote store (development mode)")
		return remote.NewMockStore(), nil

	default:
		return nil, fmt.Errorf("unknown remote driver: %s", cfg.RemoteDriver)
	}
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}
