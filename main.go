package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard/api"
	"dashboard/cache"
	"dashboard/config"
	"dashboard/datasource"
	"dashboard/settings"
	"dashboard/store"
	"dashboard/todo"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable weather API rate limiting")
	cacheTTL := flag.Duration("cache", 0, "Forecast cache TTL (0 disables caching)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the persistent store and the repositories over it
	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}
	todos := todo.NewRepository(fileStore)
	prefs := settings.NewRepository(fileStore)

	// Build the forecast source with optional decorators
	var source datasource.ForecastSource = datasource.NewNWSProvider(cfg.Latitude, cfg.Longitude, cfg.Contact)

	if *enableRateLimiting {
		// weather.gov has no published quota but expects unauthenticated
		// clients to stay polite: 1 request per second, small bursts.
		source = datasource.NewRateLimitedForecastSource(source, 1.0, 5)
		log.Println("Applied rate limiting to forecast source")
	}
	if *cacheTTL > 0 {
		source = cache.NewCachedForecastSource(source, *cacheTTL)
		log.Printf("Caching forecasts for %s", cacheTTL.Round(time.Second))
	}

	// Create API server
	server := api.NewServer(todos, prefs, source, cfg.Periods, *port)

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdownChan
	fmt.Printf("Shutting down due to %s signal\n", sig)
	fmt.Println("Shutdown complete")
}
