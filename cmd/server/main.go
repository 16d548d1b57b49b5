package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/config"
	"github.com/svaldez/socialnet-api/internal/database"
	"github.com/svaldez/socialnet-api/internal/handlers"
	"github.com/svaldez/socialnet-api/internal/logger"
	"github.com/svaldez/socialnet-api/internal/middleware"
	"github.com/svaldez/socialnet-api/internal/queue"
	"github.com/svaldez/socialnet-api/internal/service"
	"github.com/svaldez/socialnet-api/internal/services/authapi"
	"github.com/svaldez/socialnet-api/internal/telemetry"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := logger.Sync(zapLogger); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "socialnet-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		zapLogger.Fatal("failed_to_ensure_schema", zap.Error(err))
	}
	schemaCancel()
	zapLogger.Info("schema_ready")

	// Metrics are best-effort observability; a missing broker must not
	// keep the service from starting.
	var metrics queue.MetricsPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err := queue.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			zapLogger.Warn("failed_to_connect_to_rabbitmq", zap.Error(err))
		} else {
			metrics = publisher
			zapLogger.Info("connected_to_rabbitmq")
			defer func() {
				if err := publisher.Close(); err != nil {
					zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
				}
			}()
		}
	} else {
		zapLogger.Warn("rabbitmq_url_not_configured_metrics_disabled")
	}

	userRepo := database.NewUserRepository(db)
	followRepo := database.NewFollowRepository(db)
	discoveryRepo := database.NewDiscoveryRepository(db)
	accounts := service.NewAccountService(userRepo, followRepo, discoveryRepo, metrics, zapLogger)

	authClient := authapi.NewClient(cfg.AuthAPIURL, time.Duration(cfg.AuthAPITimeout)*time.Second)

	router := mux.NewRouter()
	if cfg.OTELEnabled {
		router.Use(otelmux.Middleware("socialnet-api"))
	}
	router.Use(middleware.ErrorHandler(zapLogger))
	router.Use(middleware.Logging(zapLogger))
	router.Use(middleware.RequireJSON(zapLogger))

	healthHandler := handlers.NewHealthHandler(db)
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")

	apiRouter := router.PathPrefix("/users").Subrouter()
	apiRouter.Use(middleware.Auth(authClient, zapLogger))

	handlers.NewUserHandler(accounts, zapLogger).RegisterRoutes(apiRouter)
	handlers.NewFollowHandler(accounts, zapLogger).RegisterRoutes(apiRouter)
	handlers.NewDiscoveryHandler(accounts, zapLogger).RegisterRoutes(apiRouter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(router)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful_shutdown_failed", zap.Error(err))
	}
	zapLogger.Info("server_stopped")
}
