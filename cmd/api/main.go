package main

// @title Laundromat Finder API
// @version 1.0.0
// @description Поиск прачечных рядом с местом по данным OpenStreetMap.
// @description
// @description Текстовый запрос геокодируется через Nominatim, затем через Overpass API
// @description ищутся объекты shop=laundry, amenity=laundry и amenity=laundrette в заданном радиусе.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/laundromat-finder/docs/swagger"
	"github.com/laundromat-finder/internal/config"
	httpDelivery "github.com/laundromat-finder/internal/delivery/http"
	"github.com/laundromat-finder/internal/delivery/http/handler"
	"github.com/laundromat-finder/internal/infrastructure/nominatim"
	"github.com/laundromat-finder/internal/infrastructure/overpass"
	"github.com/laundromat-finder/internal/pkg/logger"
	"github.com/laundromat-finder/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "laundromat-api"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Laundromat Finder API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("user_agent", cfg.OSM.UserAgent),
		zap.String("nominatim_url", cfg.Nominatim.BaseURL),
		zap.String("overpass_url", cfg.Overpass.URL),
	)

	// 3. Initialize upstream clients
	geocoder := nominatim.NewNominatimClient(&cfg.Nominatim, cfg.OSM.UserAgent, log)
	laundromatRepo := overpass.NewOverpassClient(&cfg.Overpass, cfg.OSM.UserAgent, log)

	// 4. Initialize Use Cases
	laundromatUC := usecase.NewLaundromatUseCase(geocoder, laundromatRepo, log)

	// 5. Initialize HTTP Handlers
	laundromatHandler := handler.NewLaundromatHandler(laundromatUC, log)

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, laundromatHandler)

	// 7. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
