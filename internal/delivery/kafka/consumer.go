package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"comanda/internal/models"
	"comanda/internal/service"
)

type Config struct {
	Brokers     []string
	GroupID     string
	Topic       string
	DLQ         string
	MaxRetries  int
	BaseBackoff time.Duration
}

// EventHandler processes one decoded notification event. Returning an error
// wrapped in service.ErrDecode or service.ErrValidation marks the message
// non-retryable.
type EventHandler func(ctx context.Context, ev models.NotificationEvent) error

// Consumer reads notification events with at-least-once semantics: retry
// with exponential backoff, then dead-letter and commit.
type Consumer struct {
	reader  *kafka.Reader
	dlq     *kafka.Writer
	handler EventHandler
	cfg     Config
}

func NewConsumer(cfg Config, handler EventHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        100 * time.Millisecond,
		CommitInterval: 0,
	})

	var w *kafka.Writer
	if cfg.DLQ != "" {
		w = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.DLQ,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		}
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}

	return &Consumer{reader: r, dlq: w, handler: handler, cfg: cfg}
}

func (c *Consumer) Subscribe(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.WithError(err).Warn("kafka fetch error")
			select {
			case <-time.After(300 * time.Millisecond):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		ok := false
		var last error
		for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
			if e := c.process(ctx, m.Value); e == nil {
				ok = true
				break
			} else if isNonRetryable(e) {
				last = e
				break
			} else {
				last = e
				time.Sleep(backoff(attempt, c.cfg.BaseBackoff))
			}
		}

		if ok {
			if err := c.reader.CommitMessages(ctx, m); err != nil {
				logrus.WithError(err).Errorf("commit failed (offset %d, partition %d)", m.Offset, m.Partition)
			}
			continue
		}

		if c.dlq != nil {
			if ctx.Err() != nil {
				return nil
			}

			dlqMsg := kafka.Message{
				Key:   m.Key,
				Value: m.Value,
				Headers: append(m.Headers,
					kafka.Header{Key: "x-dlq-reason", Value: []byte(trimErr(last))},
					kafka.Header{Key: "x-dlq-attempts", Value: []byte(strconv.Itoa(c.cfg.MaxRetries + 1))},
					kafka.Header{Key: "x-dlq-ts", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
					kafka.Header{Key: "x-dlq-source-topic", Value: []byte(c.reader.Config().Topic)},
					kafka.Header{Key: "x-dlq-group", Value: []byte(c.reader.Config().GroupID)},
				),
			}
			if err := c.dlq.WriteMessages(ctx, dlqMsg); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logrus.WithError(err).Errorf("write to DLQ failed (offset %d, partition %d)", m.Offset, m.Partition)
				time.Sleep(500 * time.Millisecond)
				continue
			}
		} else {
			logrus.Warnf("DLQ disabled, drop message (offset %d, partition %d): %v", m.Offset, m.Partition, last)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Errorf("commit after DLQ (offset %d, partition %d) failed", m.Offset, m.Partition)
		}
	}
}

func (c *Consumer) process(ctx context.Context, payload []byte) error {
	var ev models.NotificationEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: %v", service.ErrDecode, err)
	}
	return c.handler(ctx, ev)
}

func (c *Consumer) Close() error {
	var first error
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			first = err
		}
	}
	if c.dlq != nil {
		if err := c.dlq.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func backoff(n int, base time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	d := base * (1 << (n - 1))
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func trimErr(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > 1000 {
		return s[:1000]
	}
	return s
}

func isNonRetryable(err error) bool {
	return errors.Is(err, service.ErrDecode) || errors.Is(err, service.ErrValidation)
}
