package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"comanda/internal/configs"
	"comanda/internal/delivery/kafka"
	"comanda/internal/models"
)

// The notifier consumes notification events and fans them out to their
// audiences. Delivery here is structured log output; a push/websocket
// gateway would hang off the same handler.
func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(kafka.Config{
		Brokers: cfg.KafkaBrokersSlice(),
		GroupID: cfg.KafkaGroupID,
		Topic:   cfg.KafkaTopic,
		DLQ:     cfg.KafkaDLQTopic,
	}, deliver)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Subscribe(ctx); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
			cancel()
		}
	}()
	logrus.Print("kafka subscription started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	cancel()
	if err := consumer.Close(); err != nil {
		logrus.Errorf("consumer close: %s", err)
	}

	wg.Wait()
	logrus.Print("notifier stopped")
}

func deliver(_ context.Context, ev models.NotificationEvent) error {
	entry := logrus.WithFields(logrus.Fields{
		"kind":  ev.Kind,
		"order": ev.OrderNumber,
		"shift": ev.ShiftID,
		"at":    ev.At,
	})
	for _, audience := range ev.Audiences {
		scoped := entry.WithField("audience", audience)
		if ev.HighPriority {
			scoped.Warn(ev.Message)
			continue
		}
		scoped.Info(ev.Message)
	}
	return nil
}
