package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpapi "bookshare-backend/internal/api/http"
	"bookshare-backend/internal/config"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository/postgres"
	"bookshare-backend/internal/security"
	"bookshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Book Redistribution Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "sendgrid_enabled", cfg.Email.SendGridAPIKey != "", "from", cfg.Email.From)

	// Apply schema migrations
	if cfg.Database.AutoMigrate {
		if err := postgres.MigrateUp(cfg.GetDatabaseConnectionString()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize Database
	db, err := postgres.Open(cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, security.TokenTTLs{
		Access:  cfg.AccessTokenTTL(),
		Refresh: cfg.RefreshTokenTTL(),
		Verify:  cfg.VerifyTokenTTL(),
	})

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName)
	services := httpapi.Services{
		Auth: service.NewAuthService(store.ProfileRepository, tokenManager, emailSvc, service.AuthOptions{
			SkipEmailVerification: cfg.Auth.SkipEmailVerification,
			VerifyURL:             cfg.Email.VerifyURL,
		}),
		Catalog: service.NewCatalogService(store.BookRepository),
		Requests: service.NewRequestService(
			store.RequestRepository,
			store.BookRepository,
			store.ProfileRepository,
			emailSvc,
			store.NotificationRepository,
		),
		Notifications: service.NewNotificationService(store.NotificationRepository),
	}

	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		logger.Error("Invalid trusted proxies", "error", err)
		os.Exit(1)
	}
	router := httpapi.NewRouter(services, httpapi.RouterOptions{
		Tokens:         tokenManager,
		AuthRateLimit:  rate.Limit(cfg.Auth.RateLimitPerSecond),
		AuthRateBurst:  cfg.Auth.RateLimitBurst,
		TrustedProxies: trustedProxies,
		HealthCheckDB:  db,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC health server for orchestrator probes
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped. Goodbye!")
}
