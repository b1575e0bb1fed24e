package main

import (
	"context"
	"log"
	"net/http"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/layer-3/portal/adapters/events"
	"github.com/layer-3/portal/adapters/store"
	"github.com/layer-3/portal/adapters/wallet"
	"github.com/layer-3/portal/internal/config"
	"github.com/layer-3/portal/internal/logging"
	"github.com/layer-3/portal/service"
	transport "github.com/layer-3/portal/transport/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to parse Redis URL", zap.Error(err))
	}

	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal("failed to create Redis publisher", zap.Error(err))
	}
	defer publisher.Close()

	eventPub := events.NewWatermillPublisher(publisher, transport.ContextWallet{}, cfg.Events.SignalTopic, cfg.Events.TelemetryTopic, logger)

	durable := store.NewRedisStore(redisClient, cfg.Redis.RefreshPrefix)

	gateway := service.NewGateway(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.HTTPTimeout()}, service.AppContext{
		Wallet:    transport.ContextWallet{},
		Access:    store.NewMemoryStore(),
		Refresh:   durable,
		Signals:   eventPub,
		Telemetry: eventPub,
	}, logger)

	api := service.NewAPI(gateway)
	shop := service.NewShop(gateway)
	sessions := transport.NewSessions(durable, cfg.App.SessionTTL())

	if cfg.Wallet.DevPrivateKey != "" {
		signer, err := wallet.NewEthSigner(cfg.Wallet.DevPrivateKey, cfg.Wallet.DevAddress)
		if err != nil {
			logger.Fatal("invalid dev wallet", zap.Error(err))
		}

		ctx := context.Background()
		if _, err := api.LoginWithSigner(ctx, signer); err != nil {
			logger.Warn("dev wallet login failed", zap.String("address", signer.Address()), zap.Error(err))
		} else if session, err := sessions.Create(ctx, signer.Address()); err != nil {
			logger.Warn("dev wallet session failed", zap.String("address", signer.Address()), zap.Error(err))
		} else {
			logger.Info("dev wallet logged in", zap.String("address", signer.Address()), zap.String("session", session))
		}
	}

	router := transport.SetupRouter(api, shop, sessions, logger)

	logger.Info("portal listening", zap.String("addr", cfg.App.Addr), zap.String("api", cfg.API.BaseURL))
	if err := router.Run(cfg.App.Addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
