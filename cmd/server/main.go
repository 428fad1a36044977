// Package main is the entry point for the restock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restock/internal/domain/scratch"
	"restock/internal/infrastructure/cache"
	v1 "restock/internal/infrastructure/http/v1"
	"restock/internal/infrastructure/http/v1/handlers"
	"restock/internal/infrastructure/sequence"
	"restock/internal/infrastructure/storage/postgres"
	"restock/pkg/logger"
)

func main() {
	logger.Init(getEnv("LOG_LEVEL", "info"))
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "starting restock server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		logger.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info(ctx, "database connection established")

	txManager := postgres.NewTxManager(pool)
	seq := sequence.New(pool)

	// --- Scratch store ---
	// Redis when configured, in-memory otherwise. Both back the same
	// single recoverable draft slot.
	scratchTTL := getEnvDuration("SCRATCH_TTL", scratch.DefaultTTL)
	var scratchStore scratch.Store
	var cachePinger handlers.Pinger

	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		client := cache.NewRedisClient(redisAddr, getEnv("REDIS_PASSWORD", ""), getEnvInt("REDIS_DB", 0))
		redisStore, err := cache.NewRedisScratchStore(client, scratchTTL)
		if err != nil {
			logger.Error(ctx, "failed to initialize redis scratch store", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		scratchStore = redisStore
		cachePinger = redisStore
		logger.Info(ctx, "scratch store backed by redis", "addr", redisAddr, "ttl", scratchTTL)
	} else {
		scratchStore = scratch.NewMemoryStore(scratchTTL)
		logger.Info(ctx, "scratch store running in memory", "ttl", scratchTTL)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		TxManager:    txManager,
		Sequence:     seq,
		ScratchStore: scratchStore,
		CachePinger:  cachePinger,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "server failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
