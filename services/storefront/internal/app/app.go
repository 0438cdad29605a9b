package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/omeldon/purrfect-cafe/platform/clock"
	platformhealth "github.com/omeldon/purrfect-cafe/platform/health/grpc"
	platformlogging "github.com/omeldon/purrfect-cafe/platform/logging"
	"github.com/omeldon/purrfect-cafe/platform/observability"
	platformshutdown "github.com/omeldon/purrfect-cafe/platform/shutdown"
	httpapi "github.com/omeldon/purrfect-cafe/services/storefront/internal/api/http"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/config"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/event/kafka"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/mail"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/metrics"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/service"
)

const readinessInterval = 5 * time.Second

// App содержит все зависимости для запуска и корректного shutdown Storefront Service
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	grpcServer  *grpc.Server
	listener    net.Listener
	health      *platformhealth.Health
	readiness   func(context.Context) error
	shutdownMgr *platformshutdown.Manager
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости Storefront Service
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"

	// Создаём logger
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "storefront",
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("op", op))
	cfg.Log(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// OpenTelemetry (noop при OTEL_ENABLED=false)
	otelShutdown, err := observability.Init(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		_ = otelShutdown(context.Background())
		return nil, err
	}
	fail := func(err error) (*App, error) {
		store.closeAll(context.Background())
		_ = otelShutdown(context.Background())
		return nil, err
	}

	readiness := store.readiness
	if readiness == nil {
		readiness = func(context.Context) error { return nil }
	}

	clk := clock.NewRealClock()

	// Каталог и реестр корзин по сессиям
	cat := catalog.Default()
	registry := cart.NewRegistry(store.state, cfg.StorageKey, cfg.SessionIdleTTL, clk, logger)

	cartMetrics, err := metrics.NewCartMetrics(observability.Meter("storefront"), registry)
	if err != nil {
		return fail(err)
	}
	cartMetrics.Attach(registry)

	// Публикация оформленных заказов
	var (
		publisher   service.CheckoutPublisher
		kafkaWriter *kafka.CheckoutPublisher
	)
	if cfg.KafkaEnabled {
		logger.Info("Kafka checkout publisher enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
		kafkaWriter = kafka.NewCheckoutPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = kafkaWriter
	} else {
		logger.Info("Kafka disabled, checkout events are logged only")
		publisher = kafka.NewLogPublisher(logger)
	}

	// Письма подписчикам
	renderer, err := mail.NewRenderer()
	if err != nil {
		return fail(err)
	}
	var mailer service.Mailer
	if cfg.PostmarkToken != "" {
		mailer = mail.NewPostmarkMailer(cfg.PostmarkToken, cfg.EmailSender, renderer, logger)
	} else {
		logger.Info("POSTMARK_API_TOKEN not set, welcome emails are logged only")
		mailer = mail.NewLogMailer(renderer, logger)
	}

	// Создаем service слой с зависимостями
	shipping := service.ShippingPolicy{
		FreeThreshold: cfg.FreeShippingThreshold,
		Fee:           cfg.ShippingFee,
	}
	cartService := service.NewCartService(cat, registry, shipping, logger)
	checkoutService := service.NewCheckoutService(registry, publisher, shipping, clk, logger)
	newsletterService := service.NewNewsletterService(store.subscribers, mailer, clk, logger)

	// HTTP API
	handler := httpapi.NewHandler(cat, cartService, checkoutService, newsletterService, logger)
	router := httpapi.NewRouter(handler, readiness, logger)

	// WriteTimeout снимается для SSE внутри handler
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// gRPC health для probes оркестратора, стартуем с NOT_SERVING
	health := platformhealth.New(grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	listener, err := net.Listen("tcp", cfg.GRPCHealthAddr)
	if err != nil {
		return fail(fmt.Errorf("listen grpc health: %w", err))
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(observability.GRPCUnaryServerInterceptor("storefront")),
	)
	health.Register(grpcServer)

	// Создаём shutdown manager
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// Регистрируем shutdown функции в обратном порядке выполнения
	shutdownMgr.Add("otel", otelShutdown)
	for _, c := range store.closers {
		shutdownMgr.Add(c.name, c.fn)
	}
	if kafkaWriter != nil {
		shutdownMgr.Add("kafka_writer", platformshutdown.Close(kafkaWriter))
	}
	shutdownMgr.Add("grpc_server", platformshutdown.ShutdownGRPCServer(grpcServer))
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))
	shutdownMgr.Add("health_readiness", platformshutdown.SetHealthNotServing(health))

	return &App{
		logger:      logger,
		httpServer:  httpServer,
		grpcServer:  grpcServer,
		listener:    listener,
		health:      health,
		readiness:   readiness,
		shutdownMgr: shutdownMgr,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting Storefront service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.logger.Info("gRPC health server listening", zap.String("addr", a.listener.Addr().String()))
		if err := a.grpcServer.Serve(a.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			a.logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Readiness следит за хранилищем до остановки
	watchCtx, stopWatch := context.WithCancel(context.Background())
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.health.Watch(watchCtx, readinessInterval, a.readiness, a.logger)
	}()

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait()
	stopWatch()

	a.wg.Wait()
	a.logger.Info("Storefront service stopped")
	return nil
}
