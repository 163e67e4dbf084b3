package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dmallory42/super-fpl/internal/api"
	"github.com/dmallory42/super-fpl/internal/providers"
	"github.com/dmallory42/super-fpl/internal/services"
	"github.com/dmallory42/super-fpl/internal/store"
	"github.com/dmallory42/super-fpl/pkg/config"
	"github.com/dmallory42/super-fpl/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
		"store":       cfg.StoreBackend,
	}).Info("Starting super-fpl")

	// Connect the cache store; it lives for the whole process.
	cacheStore, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := cacheStore.Connect(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to connect store: %v", err)
	}
	cancel()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cacheStore.Close(ctx); err != nil {
			log.WithError(err).Warn("Store close failed")
		}
	}()

	// Initialize the fetch pipeline
	fplClient := providers.NewFPLClient(cfg.FPLAPIURL, cfg.UpstreamTimeout, logger.WithComponent("fpl_provider"))
	breaker := services.NewUpstreamBreaker(cfg.BreakerResetTimeout, logger.WithComponent("circuit_breaker"))
	orchestrator := services.NewOrchestrator(cacheStore, fplClient, breaker, logger.WithComponent("orchestrator"))

	router := api.SetupRouter(orchestrator, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("super-fpl started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down super-fpl...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("super-fpl exited")
}

// newStore picks the cache store backend from configuration.
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		return store.NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, logger.WithComponent("mongo_store")), nil
	case "redis":
		return store.NewRedisStore(cfg.RedisURL, logger.WithComponent("redis_store")), nil
	case "file":
		return store.NewFileStore(cfg.FileStoreDir), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
