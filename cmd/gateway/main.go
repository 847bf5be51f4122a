package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuongbtq/job-gateway/internal/api/handler"
	"github.com/cuongbtq/job-gateway/internal/api/router"
	"github.com/cuongbtq/job-gateway/internal/config"
	"github.com/cuongbtq/job-gateway/internal/events"
	"github.com/cuongbtq/job-gateway/internal/gateway"
	"github.com/cuongbtq/job-gateway/internal/gateway/dispatch"
	"github.com/cuongbtq/job-gateway/internal/gateway/notify"
	"github.com/cuongbtq/job-gateway/internal/gateway/registry"
	"github.com/cuongbtq/job-gateway/internal/gateway/store"
	"github.com/cuongbtq/job-gateway/internal/ops"
	"github.com/cuongbtq/job-gateway/shared/logger"
	"github.com/cuongbtq/job-gateway/shared/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("GATEWAY_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/gateway/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting job gateway",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	if cfg.Auth.Token == "" {
		appLogger.Warn("No auth token configured, requests are accepted unauthenticated")
	}

	// Root context for background components
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Job store with TTL sweeper
	jobStore := store.NewMemoryStore(cfg.Gateway.JobTTL, appLogger.Logger)
	jobStore.StartSweeper(ctx, cfg.Gateway.SweepInterval)

	// Terminal-state notifiers: signed HTTP callbacks, plus the optional
	// AMQP lifecycle event publisher
	notifiers := []dispatch.Notifier{
		notify.NewNotifier(appLogger.Logger, cfg.Callback.HMACSecret, cfg.Callback.Timeout),
	}

	var rabbitClient *rabbitmq.Client
	if cfg.Events.Enabled {
		rabbitClient, err = initRabbitMQ(&cfg.Events, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		notifiers = append(notifiers, events.NewPublisher(rabbitClient, appLogger.Logger))
		appLogger.Info("Lifecycle event publisher enabled",
			slog.String("exchange", cfg.Events.Exchange.Name),
			slog.String("routing_key", cfg.Events.RoutingKey),
		)
	}

	// Operation registry with the stock operations
	opRegistry := registry.New(ops.Table())
	appLogger.Info("Operation registry initialized",
		slog.Any("operations", opRegistry.Names()),
	)

	// Dispatcher / worker pool
	dispatcher := dispatch.NewDispatcher(&dispatch.Config{
		Logger:         appLogger.Logger,
		Store:          jobStore,
		Registry:       opRegistry,
		Notifiers:      notifiers,
		MaxWorkers:     cfg.Gateway.MaxWorkers,
		QueueSize:      cfg.Gateway.QueueSize,
		RequestTimeout: cfg.Gateway.RequestTimeout,
	})
	dispatcher.Start(ctx)

	svc := gateway.NewService(appLogger.Logger, opRegistry, jobStore, dispatcher)

	// Initialize router
	r := initRouter(cfg.App.Environment, appLogger.Logger, svc, cfg.Auth.Token)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("Job gateway is running",
		slog.String("address", addr),
		slog.Int("max_workers", cfg.Gateway.MaxWorkers),
		slog.Duration("job_ttl", cfg.Gateway.JobTTL),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
	}

	// Let in-flight jobs finish before dropping the AMQP connection
	dispatcher.Stop()
	cancel()

	if rabbitClient != nil {
		rabbitClient.Close()
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initRabbitMQ initializes the RabbitMQ client for lifecycle events
func initRabbitMQ(cfg *config.EventsConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, logger *slog.Logger, svc *gateway.Service, authToken string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handlerDeps := &handler.Dependencies{
		Logger:  logger,
		Gateway: svc,
	}

	return router.SetupRouter(handlerDeps, authToken)
}
