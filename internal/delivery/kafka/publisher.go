package kafka

import (
	"context"
	"encoding/json"

	kafka "github.com/segmentio/kafka-go"

	"comanda/internal/models"
)

// NotificationPublisher pushes notification events onto the notification
// topic. It satisfies service.Notifier.
type NotificationPublisher struct {
	writer *kafka.Writer
}

func NewNotificationPublisher(brokers []string, topic string) *NotificationPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &NotificationPublisher{writer: w}
}

func (p *NotificationPublisher) Notify(ctx context.Context, ev models.NotificationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	key := ev.OrderID
	if key == "" {
		key = ev.ShiftID
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (p *NotificationPublisher) Close() error {
	return p.writer.Close()
}
