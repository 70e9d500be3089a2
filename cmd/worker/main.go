package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/schedly/catalog-api/internal/config"
	"github.com/schedly/catalog-api/internal/model"
	"github.com/schedly/catalog-api/internal/service/notification"
	redisbroker "github.com/schedly/catalog-api/pkg/messaging/redis"
)

// Channels the notification worker listens on. Created/updated events are
// informational only; availability changes and deletions page the admins.
var watchedEvents = []string{
	model.EventServiceEnabled,
	model.EventServiceDisabled,
	model.EventServiceDeleted,
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zl := log.Logger
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	notifier := notification.NewEmailService(cfg.SMTP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, eventType := range watchedEvents {
		msgs, err := broker.Subscribe(ctx, eventType)
		if err != nil {
			log.Fatal().Err(err).Str("event_type", eventType).Msg("failed to subscribe")
		}
		go consume(ctx, eventType, msgs, notifier)
	}

	log.Info().Msg("notification worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down notification worker")
}

func consume(ctx context.Context, eventType string, msgs <-chan []byte, notifier notification.Service) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-msgs:
			if !ok {
				return
			}

			var payload model.ServiceEventPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				log.Error().Err(err).Str("event_type", eventType).Msg("failed to decode event payload")
				continue
			}

			if err := notifier.NotifyServiceChange(ctx, eventType, &payload); err != nil {
				log.Error().Err(err).
					Str("event_type", eventType).
					Str("service_name", payload.ServiceName).
					Msg("failed to send notification")
			}
		}
	}
}
