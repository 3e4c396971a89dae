package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-bot/config"
	"storefront-bot/internal/api"
	"storefront-bot/internal/broker"
	"storefront-bot/internal/catalog"
	"storefront-bot/internal/email"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/invoice"
	"storefront-bot/internal/redisclient"
	"storefront-bot/internal/service"
	"storefront-bot/internal/session"
	"storefront-bot/internal/store"
	"storefront-bot/internal/util"
	"storefront-bot/internal/whatsapp"
	"storefront-bot/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront bot",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver))

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx)
	cancelMigrate()
	if err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected")

	checks := []api.ReadinessCheck{{Name: "database", Ping: db.Ping}}

	var dedupe service.Deduplicator
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DedupTTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		dedupe = redisClient
		checks = append(checks, api.ReadinessCheck{Name: "redis", Ping: redisClient.Ping})
		logger.Info("Redis connected")
	} else {
		logger.Warn("REDIS_ADDR not set, inbound messages are not deduplicated")
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicStoreEvents, logger)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicStoreEvents))
	}

	if cfg.WhatsApp.Token == "" || cfg.WhatsApp.PhoneNumberID == "" {
		logger.Warn("Graph API credentials missing, outbound messages will fail")
	}
	messenger := whatsapp.NewClient(whatsapp.Config{
		Token:         cfg.WhatsApp.Token,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		APIVersion:    cfg.WhatsApp.APIVersion,
		BaseURL:       cfg.WhatsApp.BaseURL,
	}, logger)

	var notifier service.TicketNotifier
	if cfg.Support.Enabled() {
		n, err := email.NewNotifier(cfg.Support.ResendAPIKey, cfg.Support.EmailFrom, cfg.Support.EmailTo)
		if err != nil {
			logger.Fatal("Failed to configure support email", zap.Error(err))
		}
		notifier = n
	}

	cat := catalog.MustDefault()
	eng := engine.New(cat, i18n.MustLoad())
	invoices := invoice.NewGenerator(cfg.Invoice.Dir, cfg.Invoice.StoreName, cat.FormatPrice)
	sessions := session.NewStore()

	orderService := service.NewOrderService(db, publisher, invoices, messenger, eng)
	supportService := service.NewSupportService(db, publisher, notifier)
	fulfillmentService := service.NewFulfillmentService(db, sessions, messenger, eng)
	conversationService := service.NewConversationService(eng, sessions, messenger, orderService, supportService, dedupe)

	var statusWorker *worker.StatusWorker
	if cfg.Kafka.Enabled() {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrderStatus, cfg.Kafka.ConsumerGroup, logger)
		statusWorker = worker.NewStatusWorker(consumer, fulfillmentService.HandleStatusEvent)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(conversationService, db, fulfillmentService, api.WebhookConfig{
		VerifyToken: cfg.WhatsApp.VerifyToken,
		AppSecret:   cfg.WhatsApp.AppSecret,
	}, checks...)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if statusWorker != nil {
		g.Go(func() error {
			return statusWorker.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	if statusWorker != nil {
		if err := statusWorker.Stop(); err != nil {
			logger.Error("Failed to stop status worker", zap.Error(err))
		}
	}
	orderService.Wait()

	logger.Info("Server exited")
}
