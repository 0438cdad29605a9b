package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CheckoutHandler обрабатывает одно событие оформленного заказа
type CheckoutHandler func(ctx context.Context, event CheckoutCompletedEvent) error

// messageReader часть kafka.Reader, нужная consumer'у
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CheckoutConsumer читает события оформленных заказов из Kafka
type CheckoutConsumer struct {
	logger  *zap.Logger
	reader  messageReader
	handler CheckoutHandler
}

// NewCheckoutConsumer создаёт consumer группы groupID для topic
func NewCheckoutConsumer(logger *zap.Logger, brokers []string, groupID, topic string, handler CheckoutHandler) *CheckoutConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &CheckoutConsumer{
		logger:  logger,
		reader:  reader,
		handler: handler,
	}
}

// Close закрывает reader
func (c *CheckoutConsumer) Close() error {
	return c.reader.Close()
}

// Start читает сообщения до отмены ctx.
// At-least-once: offset коммитится после успешной обработки,
// битые сообщения коммитятся сразу, чтобы не зациклиться.
func (c *CheckoutConsumer) Start(ctx context.Context) error {
	c.logger.Info("starting checkout consumer")

	for {
		// FetchMessage вместо ReadMessage для ручного контроля commit
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer context cancelled, stopping")
				return nil
			}
			c.logger.Error("failed to fetch message from kafka", zap.Error(err))
			continue
		}

		if !c.processMessage(ctx, m) {
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("failed to commit message offset",
				zap.Error(err),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
			)
		}
	}
}

// processMessage возвращает true, если offset нужно закоммитить
func (c *CheckoutConsumer) processMessage(ctx context.Context, m kafka.Message) bool {
	event, err := decodeCheckoutEvent(m)
	if err != nil {
		c.logger.Error("skipping malformed checkout message",
			zap.Error(err),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		// Коммитим poison pill
		return true
	}

	if err := c.handler(ctx, event); err != nil {
		c.logger.Error("failed to handle checkout event",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.String("order_id", event.OrderID),
		)
		return false
	}
	return true
}

func decodeCheckoutEvent(m kafka.Message) (CheckoutCompletedEvent, error) {
	var event CheckoutCompletedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return CheckoutCompletedEvent{}, fmt.Errorf("unmarshal checkout event: %w", err)
	}
	if event.EventType != EventTypeCheckoutCompleted {
		return CheckoutCompletedEvent{}, fmt.Errorf("unexpected event type %q", event.EventType)
	}
	if event.OrderID == "" {
		return CheckoutCompletedEvent{}, fmt.Errorf("order_id is required")
	}
	return event, nil
}
