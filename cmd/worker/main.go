package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/laundromat-finder/internal/config"
	"github.com/laundromat-finder/internal/infrastructure/nominatim"
	"github.com/laundromat-finder/internal/infrastructure/overpass"
	"github.com/laundromat-finder/internal/pkg/logger"
	redisRepo "github.com/laundromat-finder/internal/repository/redis"
	"github.com/laundromat-finder/internal/usecase"
	"github.com/laundromat-finder/internal/worker"
	"github.com/laundromat-finder/internal/worker/search"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "laundromat-worker"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Laundromat Search Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout),
		zap.Float64("searches_per_second", cfg.Worker.SearchesPerSecond),
		zap.String("redis_addr", cfg.GetRedisAddr()))

	// 3. Connect to Redis
	redisClient, err := redisRepo.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories and upstream clients
	streamRepo := redisRepo.NewStreamRepository(redisClient.Redis(), cfg.Worker.StreamReadTimeout, log)
	geocoder := nominatim.NewNominatimClient(&cfg.Nominatim, cfg.OSM.UserAgent, log)
	laundromatRepo := overpass.NewOverpassClient(&cfg.Overpass, cfg.OSM.UserAgent, log)

	// 5. Initialize use cases
	laundromatUC := usecase.NewLaundromatUseCase(geocoder, laundromatRepo, log)

	// 6. Initialize workers
	limiter := rate.NewLimiter(rate.Limit(cfg.Worker.SearchesPerSecond), 1)
	searchWorker := search.NewSearchWorker(
		streamRepo,
		laundromatUC,
		limiter,
		cfg.Worker.ConsumerGroup,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(searchWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Воркеры сначала получают Stop и дорабатывают текущий поиск,
	// контекст отменяется только после этого
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
