package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "heartbeat_monitor/docs"
	"heartbeat_monitor/internal/handlers"
	"heartbeat_monitor/internal/logger"
	"heartbeat_monitor/internal/repository"
	"heartbeat_monitor/internal/server"
	"heartbeat_monitor/internal/service"

	"github.com/spf13/viper"
)

const defaultSweepTick = 1 * time.Minute

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// detection defaults (fail fast on misconfiguration)
	cfg, err := detectionConfig()
	if err != nil {
		log.Fatalw("invalid monitor config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, cfg)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start background sweeper (via composed service)
	go services.Sweeper.Run(ctx, sweepTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// detectionConfig builds the default detection parameters from config,
// falling back to 60s / 3 misses when unset.
func detectionConfig() (service.Config, error) {
	intervalSeconds := viper.GetInt("monitor.interval_seconds")
	if intervalSeconds == 0 {
		intervalSeconds = service.DefaultIntervalSeconds
	}
	allowedMisses := viper.GetInt("monitor.allowed_misses")
	if allowedMisses == 0 {
		allowedMisses = service.DefaultAllowedMisses
	}
	return service.NewConfig(intervalSeconds, allowedMisses)
}

// sweepTick returns how often the background sweeper re-runs detection.
func sweepTick() time.Duration {
	if d := viper.GetDuration("monitor.sweep_interval"); d > 0 {
		return d
	}
	return defaultSweepTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
