package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/rastreio-bfa-go/internal/config"
	"github.com/boddenberg/rastreio-bfa-go/internal/handler"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/asaas"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/cache"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/configstore"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/notify"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/observability"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/rastreio-bfa-go/internal/infra/whatsapp"
	"github.com/boddenberg/rastreio-bfa-go/internal/port"
	"github.com/boddenberg/rastreio-bfa-go/internal/service"
	"github.com/boddenberg/rastreio-bfa-go/internal/templating"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("config_store", cfg.ConfigStore),
		zap.Bool("asaas_use_proxy", cfg.AsaasUseProxy),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("gateway_timeout", cfg.GatewayTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("signature_ttl", cfg.SignatureTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "rastreio-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Config store ---
	var store interface {
		port.KeyValueStore
		handler.Pinger
	}
	switch cfg.ConfigStore {
	case "redis":
		redisStore, err := configstore.NewRedisStore(configstore.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "rastreio:",
		})
		if err != nil {
			logger.Fatal("failed to connect config store", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info("gateway config stored in redis", zap.String("addr", cfg.RedisAddr))
	default:
		store = configstore.NewMemoryStore()
		logger.Warn("gateway config kept in memory, it is lost on restart")
	}

	// --- Templates ---
	engine := templating.Default()
	if cfg.TemplateAliasesFile != "" {
		extra, err := templating.LoadAliases(cfg.TemplateAliasesFile)
		if err != nil {
			logger.Fatal("failed to load template aliases", zap.Error(err))
		}
		if engine, err = engine.With(extra); err != nil {
			logger.Fatal("invalid template aliases", zap.Error(err))
		}
		logger.Info("template aliases loaded",
			zap.String("file", cfg.TemplateAliasesFile),
			zap.Int("count", len(extra)),
		)
	}

	// --- Cache ---
	customerCache := cache.New[string](cfg.CacheTTL)
	defer customerCache.Stop()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	hub := notify.NewHub(metrics, logger)

	configSvc := service.NewGatewayConfigService(store, logger)

	asaasClient := asaas.NewClient(
		httpClient,
		configSvc,
		asaas.Options{
			SandboxURL:    cfg.AsaasSandboxURL,
			ProductionURL: cfg.AsaasProductionURL,
			UseProxy:      cfg.AsaasUseProxy,
			ProxyURL:      cfg.AsaasProxyURL,
			Timeout:       cfg.GatewayTimeout,
		},
		asaas.NewCircuitBreaker(),
		resilienceCfg,
		hub,
		metrics,
		logger,
	)

	whatsappClient := whatsapp.NewClient(
		httpClient,
		cfg.WhatsAppAPIURL,
		cfg.WhatsAppInstance,
		cfg.WhatsAppAPIKey,
		resilience.NewCircuitBreaker("whatsapp"),
		resilienceCfg,
		metrics,
		logger,
	)
	if cfg.WhatsAppAPIURL == "" || cfg.WhatsAppAPIKey == "" {
		logger.Warn("whatsapp: api url or key missing, sends will be rejected")
	}

	// --- Services ---
	customerSvc := service.NewCustomerService(asaas.NewCustomerClient(asaasClient), customerCache, metrics, logger)
	paymentSvc := service.NewPaymentService(asaas.NewPaymentClient(asaasClient), customerSvc, logger)

	signer := service.NewSignatureSigner(cfg.SignatureSecret, cfg.SignatureTTL, cfg.PublicBaseURL)
	contractSvc := service.NewContractService(engine, signer, whatsappClient, metrics, logger)
	messageSvc := service.NewMessageService(engine, whatsappClient, metrics, logger)

	proxy := handler.NewProxyHandler(httpClient, []string{cfg.AsaasSandboxURL, cfg.AsaasProductionURL}, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Dependencies{
		Configs:        configSvc,
		Customers:      customerSvc,
		Payments:       paymentSvc,
		Contracts:      contractSvc,
		Messages:       messageSvc,
		Hub:            hub,
		Proxy:          proxy,
		Store:          store,
		Metrics:        metrics,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// --- Server ---
	// No WriteTimeout: the notification stream stays open. Cancelling the
	// base context on shutdown ends open streams.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	cancelStreams()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
