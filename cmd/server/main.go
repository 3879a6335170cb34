package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julofinance/credit-engine/internal/application/usecase"
	"github.com/julofinance/credit-engine/internal/domain/service"
	"github.com/julofinance/credit-engine/internal/infrastructure/adapter"
	"github.com/julofinance/credit-engine/internal/infrastructure/config"
	"github.com/julofinance/credit-engine/internal/infrastructure/messaging"
	pgRepo "github.com/julofinance/credit-engine/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/julofinance/credit-engine/internal/presentation/grpc"
	"github.com/julofinance/credit-engine/internal/presentation/rest"
	"github.com/julofinance/credit-engine/pkg/auth"
	"github.com/julofinance/credit-engine/pkg/kafka"
	"github.com/julofinance/credit-engine/pkg/observability"
	"github.com/julofinance/credit-engine/pkg/postgres"
)

func main() {
	cfg := config.Load()

	logger := observability.InitLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting credit engine",
		"environment", cfg.Environment,
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Observability ------------------------------------------------------
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// --- Database -----------------------------------------------------------
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Database)

	if err := postgres.RunMigrations(cfg.DB.DSN(), cfg.MigrationsDir); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// --- Repositories -------------------------------------------------------
	decisionRepo := pgRepo.NewScoreDecisionRepo(pool)
	matrixRepo := pgRepo.NewCreditMatrixRepo(pool)
	applicationRepo := pgRepo.NewApplicationRepo(pool)
	binaryCheckRepo := pgRepo.NewBinaryCheckRepo(pool)
	customerRepo := pgRepo.NewCustomerRepo(pool)
	fdcRepo := pgRepo.NewFDCRepo(pool)
	policyRepo := pgRepo.NewPolicyRepo(pool, logger)
	outboxRepo := pgRepo.NewOutboxRepo(pool)

	partnerRules, err := config.LoadPartnerRules(cfg.PartnerRulesPath)
	if err != nil {
		logger.Warn("partner rules not loaded, using defaults", "path", cfg.PartnerRulesPath, "error", err)
		partnerRules = config.EmptyPartnerRules()
	}

	// --- Messaging ----------------------------------------------------------
	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()

	publisher := messaging.NewKafkaEventPublisher(producer, cfg.ScoreEventsTopic, logger)
	relay := messaging.NewOutboxRelay(
		outboxRepo,
		publisher,
		cfg.Outbox.PollInterval,
		cfg.Outbox.BatchSize,
		logger,
	)
	go func() {
		if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()

	// --- Collaborators ------------------------------------------------------
	mlClient := adapter.NewMLScoringAdapter(adapter.MLScoringConfig{
		BaseURL:        cfg.ModelService.BaseURL,
		APIKey:         cfg.ModelService.APIKey,
		TimeoutSeconds: cfg.ModelService.TimeoutSeconds,
		MaxRetries:     cfg.ModelService.MaxRetries,
		RetryBackoffMs: cfg.ModelService.RetryBackoffMs,
	})
	collaborators := adapter.StubCollaborators(mlClient, logger)

	// --- Domain services and use cases --------------------------------------
	resolver := service.NewMatrixResolver(matrixRepo, logger)
	chain := service.NewInterceptionChain(resolver, collaborators, logger)

	computeUC := usecase.NewComputeCreditScoreUseCase(
		decisionRepo,
		applicationRepo,
		binaryCheckRepo,
		customerRepo,
		fdcRepo,
		partnerRules,
		policyRepo,
		collaborators,
		resolver,
		chain,
		logger,
	)
	getUC := usecase.NewGetCreditScoreUseCase(decisionRepo)

	// Score applications as submission events arrive so decisions usually
	// exist before the first poll.
	appEvents := messaging.NewApplicationEventsConsumer(cfg.Kafka, cfg.ApplicationEventsTopic, computeUC, logger)
	defer appEvents.Close()
	go func() {
		if err := appEvents.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("application events consumer stopped", "error", err)
		}
	}()

	// --- gRPC server --------------------------------------------------------
	jwtService, err := newJWTService(cfg.JWT)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	handler := grpcPresentation.NewScoringHandler(computeUC, getUC, logger)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtService, grpcPresentation.ServerOptions{
		TLS:              cfg.TLS,
		EnableReflection: cfg.GRPCReflection,
	})

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			logger.Error("gRPC server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- HTTP health and metrics server --------------------------------------
	mux := http.NewServeMux()
	rest.NewHealthHandler(pool, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown --------------------------------------------------
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	cancel()
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}

	logger.Info("credit engine stopped")
}

func newJWTService(settings config.JWTSettings) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret:     settings.Secret,
		Issuer:     settings.Issuer,
		Expiration: settings.Expiration,
	}
	if settings.PublicKeyPath != "" {
		pem, err := auth.LoadKeyFromFile(settings.PublicKeyPath)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(pem)
	}
	return auth.NewJWTService(jwtCfg)
}
