package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"ms-storefront/internal/api"
	"ms-storefront/internal/catalog"
	"ms-storefront/internal/checkout"
	"ms-storefront/internal/config"
	"ms-storefront/internal/database"
	"ms-storefront/internal/graphql"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"
	"ms-storefront/internal/payment"
	"ms-storefront/internal/producer"
	producerdb "ms-storefront/internal/producer/db"
	"ms-storefront/internal/qr"
	"ms-storefront/internal/session"
	"ms-storefront/internal/sse"
	"ms-storefront/internal/validation"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting storefront initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	loc, err := time.LoadLocation(cfg.Session.Timezone)
	if err != nil {
		log.Warn("CONFIG", fmt.Sprintf("Unknown timezone %s, using local time: %v", cfg.Session.Timezone, err))
		loc = time.Local
	}

	bunDB, err := database.OpenBun(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()
	if err := database.Migrate(ctx, bunDB, log); err != nil {
		log.Fatal("DATABASE", err.Error())
	}

	var cache catalog.EventCache
	var tokens session.TokenStore
	rdb, err := database.OpenRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("REDIS", fmt.Sprintf("%v; catalog cache disabled and sessions kept in memory", err))
		tokens = session.NewMemoryTokenStore(clock)
	} else {
		defer rdb.Close()
		cache = catalog.NewRedisEventCache(rdb, cfg.Catalog.CacheTTL)
		tokens = session.NewRedisTokenStore(rdb, cfg.Session.TokenTTL, clock)
	}

	gql := graphql.NewClient(cfg.GraphQL.Endpoint, cfg.GraphQL.Timeout, log)
	catalogService := catalog.NewService(gql, cache, clock, loc, log)
	sessions := session.NewRegistry(gql, tokens, clock, log)

	publisher, consumer := startKafka(ctx, cfg.Kafka, catalogService, log)
	defer publisher.Close()
	if consumer != nil {
		defer consumer.Close()
	}

	rest := payment.NewRESTClient(cfg.Payment.BaseURL, cfg.Payment.Timeout, log)
	gateway := payment.New(models.PaymentProvider(cfg.Payment.Provider), rest)
	log.Info("PAYMENT", fmt.Sprintf("Using %s payment backend at %s", gateway.Provider(), cfg.Payment.BaseURL))

	sessionCfg := payment.DefaultSessionConfig()
	sessionCfg.PollInterval = cfg.Payment.PollInterval
	sessionCfg.SuccessDelay = cfg.Payment.SuccessDelay
	sessionCfg.ExpiryGrace = cfg.Payment.ExpiryGrace
	sessionCfg.IdleTTL = cfg.Payment.IdleTTL

	checkoutService := checkout.NewService(checkout.Dependencies{
		Events:    catalogService,
		Previews:  gql,
		Gateway:   gateway,
		Scheduler: payment.NewClockScheduler(clock),
		Clock:     clock,
		Config:    sessionCfg,
		Wallets:   sessions,
		Emitter:   sse.NewPaymentEventEmitter(),
		Publisher: publisher,
		PaidTopic: cfg.Kafka.Topics.CheckoutPaid,
		Logger:    log,

		ReapInterval: cfg.Payment.ReapInterval,
	})
	defer checkoutService.Shutdown()

	handler := &api.Handler{
		Catalog:   catalogService,
		Sessions:  sessions,
		Checkouts: checkoutService,
		Dashboard: producer.NewService(gql, catalogService, log),
		Payments:  producer.NewOnboarding(gateway, log),
		Scanner:   producer.NewScanner(gql, &producerdb.DB{Bun: bunDB}, publisher, cfg.Kafka.Topics.TicketValidated, clock, log),
		QR:        qr.NewGenerator(qr.DefaultSize),
		Validator: validation.New(),
		Clock:     clock,
		Location:  loc,
		Heartbeat: cfg.Session.Heartbeat,
		Logger:    log,
	}

	go monitoring.CollectRuntime(ctx, 15*time.Second)
	go pruneSessions(ctx, sessions, clock, 10*time.Minute, log)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Storefront running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Storefront shutdown complete")
	}
}

// pruneSessions drops logged-out and expired sessions every interval until ctx is done.
func pruneSessions(ctx context.Context, sessions *session.Registry, clock clockwork.Clock, interval time.Duration, log *logger.Logger) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := sessions.Prune(ctx); n > 0 {
				log.Debug("SESSION", fmt.Sprintf("%d sessions left after pruning", sessions.Len()))
			}
		}
	}
}

// startKafka returns a no-op publisher when Kafka is disabled. Paid checkouts
// read back from the bus invalidate the catalog cache.
func startKafka(ctx context.Context, cfg config.KafkaConfig, catalogService *catalog.Service, log *logger.Logger) (kafka.Publisher, *kafka.Consumer) {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info("KAFKA", "Kafka disabled, events will not be published")
		return kafka.NoopPublisher{}, nil
	}

	topics := []string{cfg.Topics.CheckoutPaid, cfg.Topics.TicketValidated}
	if err := kafka.EnsureTopicsExist(cfg.Brokers, topics, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	kafkaProducer := kafka.NewProducer(cfg.Brokers, log)
	log.Info("KAFKA", "Kafka producer initialized successfully")

	consumer := kafka.NewConsumer(cfg.Brokers, cfg.Topics.CheckoutPaid, cfg.GroupID, log)
	go consumer.Start(ctx, func(ctx context.Context, _ []byte) error {
		return catalogService.Invalidate(ctx)
	})
	return kafkaProducer, consumer
}
