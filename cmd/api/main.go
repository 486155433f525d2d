package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	deliveryHTTP "address-inspector/internal/adapter/delivery/http"
	"address-inspector/internal/adapter/ens"
	"address-inspector/internal/adapter/messaging/kafka"
	"address-inspector/internal/adapter/rpc"
	"address-inspector/internal/adapter/storage/memory"
	"address-inspector/internal/adapter/storage/networks"
	"address-inspector/internal/application"
	"address-inspector/internal/application/catalog"
	"address-inspector/internal/config"
	"address-inspector/internal/domain/entity"
	domainService "address-inspector/internal/domain/service"
	"address-inspector/internal/logger"
)

func main() {
	// --- Environment ---
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	zapLogger, err := logger.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer zapLogger.Sync() // Ensure logs are flushed before exiting
	zapLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	zapLogger.Info("Initializing dependencies...")

	// Network registry & gateways
	rpcOpts := rpc.Options{
		RequestTimeout:   cfg.RPC.GetRequestTimeout(),
		HandshakeTimeout: cfg.RPC.GetHandshakeTimeout(),
	}
	registry, err := networks.NewRegistry(cfg.Networks, func(def entity.NetworkDefinition) domainService.Gateway {
		client := rpc.NewClient(def.RPC, rpcOpts, zapLogger.With(zap.Stringer("network", def.ID)))
		return rpc.NewGateway(client, zapLogger)
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to build network registry", zap.Error(err))
	}

	homeGateway, err := registry.Gateway(registry.Home())
	if err != nil {
		zapLogger.Fatal("Home network has no gateway", zap.Error(err))
	}

	// Event export
	var publisher domainService.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka, zapLogger)
		zapLogger.Info("Kafka event export enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	exporter := application.NewEventExporter(rootCtx, publisher, cfg.Kafka.QueueSize, zapLogger)
	defer func() {
		stop()
		<-exporter.Done()
		if err := publisher.Close(); err != nil {
			zapLogger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()

	// Application
	resolver := application.NewIdentityResolver(ens.NewResolver(homeGateway, zapLogger), zapLogger)
	engine := application.NewEvaluationEngine(registry, catalog.Default(), zapLogger)
	sessions := memory.NewLookupRepository[*application.Lookup](cfg.Session, zapLogger,
		func(_ string, lookup *application.Lookup) { lookup.Stop() },
	)
	lookupService := application.NewLookupService(
		rootCtx, registry, resolver, engine, exporter, sessions, cfg.Session, zapLogger,
	)

	// Handlers
	lookupHandler := deliveryHTTP.NewLookupHandler(lookupService, zapLogger)

	// --- HTTP Router & Server ---
	zapLogger.Info("Setting up HTTP router...")
	r := router.New()
	deliveryHTTP.RegisterRoutes(r, lookupHandler, zapLogger)

	server := &fasthttp.Server{
		Handler: deliveryHTTP.LoggingMiddleware(zapLogger)(r.Handler),
		Name:    cfg.App.Name,
	}

	serverAddr := ":" + cfg.Server.Port
	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr))

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe(serverAddr) }()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	case <-rootCtx.Done():
		zapLogger.Info("Shutdown signal received, stopping HTTP server")
		if err := server.Shutdown(); err != nil {
			zapLogger.Error("Failed to shut down server", zap.Error(err))
		}
	}
}
