package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/config"
	"github.com/oksasatya/event-registration/internal/application"
	"github.com/oksasatya/event-registration/internal/infrastructure"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	"github.com/oksasatya/event-registration/pkg/activity"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env, cfg.LogLevel)
	if len(cfg.ESAddrs()) == 0 {
		logger.Info("ELASTICSEARCH_ADDRS empty; indexer disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQActivityQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := infrastructure.OpenGateway(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to open gateway: %v", err)
	}
	defer gw.Close()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Fatalf("failed to init elasticsearch: %v", err)
	}
	indexer := application.NewIndexerService(gw, search.NewEventIndex(es, cfg.ESEventsIndex), logger)

	// Prefetch for fair dispatch between indexer replicas
	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQActivityQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			var msg activity.Message
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = d.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := indexer.Handle(c, msg)
			cancel()
			switch {
			case errors.Is(err, application.ErrBadMessage):
				logger.WithField("type", msg.Type).Warn("dropping invalid activity message")
				_ = d.Nack(false, false)
			case err != nil:
				helpers.LogError(logger, "reindex failed", err, logrus.Fields{"event_id": msg.EventID, "type": msg.Type})
				_ = d.Nack(false, true)
			default:
				_ = d.Ack(false)
			}
		}
	}()

	logger.Infof("indexer listening on queue=%s", cfg.RabbitMQActivityQueue)
	<-ctx.Done()
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
