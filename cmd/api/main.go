package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/bootstrap"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/checkout"
	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/notification"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.LoadEnv(nil)
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting storefront api",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("store", cfg.Store.Backend),
		zap.Strings("kafka_brokers", cfg.Events.KafkaBrokers),
		zap.String("event_log", cfg.Events.LogBackend),
	)

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	cat := catalog.Seed()
	hub := api.NewHub(cat, cfg.GetCatalogQueryDelay(), cfg.HTTP.AllowedOrigins, logger)

	// Notifications reach the browser directly; Kafka and the event log
	// feed the out-of-process notifier.
	publishers := event.Fanout{notification.NewHandler(hub, nil, logger)}
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic, logger)
		defer producer.Close()
		publishers = append(publishers, producer)
	}
	if stores.EventLog != nil {
		publishers = append(publishers, stores.EventLog)
	}

	carts, err := cart.NewManager(stores.Slots, publishers, logger, cfg.Store.CacheSize)
	if err != nil {
		return err
	}
	checkoutSvc := checkout.NewService(carts, publishers, logger, cfg.GetCheckoutDelay())

	handlers := api.NewHandlers(
		command.NewHandler(cat, carts, checkoutSvc),
		query.NewHandler(cat, carts),
		checkoutSvc,
		logger,
	)
	router := api.NewRouter(handlers, api.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Tokens:         session.NewTokenService(cfg.Session.Secret, cfg.GetSessionTTL()),
		Hub:            hub,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
