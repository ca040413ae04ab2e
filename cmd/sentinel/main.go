package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/config"
	"github.com/neosentinel/neo-sentinel/internal/database"
	"github.com/neosentinel/neo-sentinel/internal/hazard"
	"github.com/neosentinel/neo-sentinel/internal/messaging"
	"github.com/neosentinel/neo-sentinel/internal/mission"
	"github.com/neosentinel/neo-sentinel/internal/server"
	"github.com/neosentinel/neo-sentinel/internal/telemetry"
	"github.com/neosentinel/neo-sentinel/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Durable store
	db, err := database.NewPostgresDB(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	store, err := mission.NewGormStore(db)
	if err != nil {
		zapLogger.Fatal("Failed to initialize alert store", zap.Error(err))
	}

	// Alert cache
	var cache mission.AlertCache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cache = mission.NewRedisCache(redisClient, store, cfg.Cache.TTL, zapLogger)
	default:
		cache = mission.NewMemoryCache(store)
	}

	// Broadcast hub
	hub := mission.NewHub(mission.DefaultSubscriberBuffer, zapLogger)
	defer hub.Close()

	// Broker
	producer := messaging.NewKafkaProducer(&cfg.Kafka, zapLogger)
	defer producer.Close()
	consumer := messaging.NewKafkaConsumer(&cfg.Kafka, zapLogger)
	defer consumer.Close()

	// Pipeline stages
	evaluator := hazard.NewEvaluator(producer, zapLogger, cfg.Hazard.DistanceThresholdKm)
	if err := consumer.Subscribe(ctx, messaging.TopicTelemetry, hazard.GroupID, evaluator.Handle); err != nil {
		zapLogger.Fatal("Failed to subscribe hazard evaluator", zap.Error(err))
	}

	commander := mission.NewCommander(store, cache, hub, zapLogger)
	if err := consumer.Subscribe(ctx, messaging.TopicHazardAlerts, mission.GroupID, commander.Handle); err != nil {
		zapLogger.Fatal("Failed to subscribe mission commander", zap.Error(err))
	}

	generator := telemetry.NewGenerator(producer, zapLogger, cfg.Telemetry.Interval, cfg.Telemetry.ObjectName)
	go generator.Run(ctx)

	// HTTP surface
	srv := server.NewServer(zapLogger, cache, hub, cfg.Auth.APIKey)
	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     srv.Router(),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("Shutdown complete")
}
