package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	flag "github.com/spf13/pflag"

	"dorm-housing-backend/config"
	"dorm-housing-backend/internal/api"
	"dorm-housing-backend/internal/db"
	"dorm-housing-backend/internal/store"
)

const usage = `Usage: dormd [flags] [serve|init-db]

Commands:
  serve     run the HTTP API (default)
  init-db   run migrations and seed rooms into an empty database

Flags:
`

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "dormd ", log.LstdFlags)

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "./config/config.yaml" // Default path for local development
	}

	fs := flag.NewFlagSet("dormd", flag.ExitOnError)
	configPath := fs.StringP("config", "c", defaultConfig, "path to the YAML configuration file")
	port := fs.IntP("port", "p", 0, "override server.port from the configuration")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	command := "serve"
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", *configPath, err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	logger.Printf("configuration loaded successfully from %s", *configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB, store.WithCodeAttempts(cfg.Housing.CodeAttempts))

	switch command {
	case "init-db":
		n, err := seedRooms(context.Background(), appStore, cfg.Housing.SeedRooms)
		if err != nil {
			logger.Fatalf("failed to seed rooms: %v", err)
		}
		logger.Printf("database ready; %d rooms seeded", n)
	case "serve":
		serve(logger, cfg, appStore)
	default:
		fs.Usage()
		os.Exit(2)
	}
}

// seedRooms creates the configured rooms when the database has none and
// returns how many were created.
func seedRooms(ctx context.Context, s store.Store, rooms []config.SeedRoom) (int, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return 0, err
	}
	if stats.Rooms > 0 {
		return 0, nil
	}
	for i, r := range rooms {
		if _, err := s.CreateRoom(ctx, r.Number, r.Capacity); err != nil {
			return i, fmt.Errorf("room %s: %w", r.Number, err)
		}
	}
	return len(rooms), nil
}

func serve(logger *log.Logger, cfg *config.Config, appStore store.Store) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize router
	router := api.NewRouter(appStore, &cfg.Server, reg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
