package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/service"
)

// EventTypeCheckoutCompleted тип события оформленного заказа
const EventTypeCheckoutCompleted = "storefront.checkout.completed"

// CheckoutLine позиция заказа в payload события
type CheckoutLine struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CheckoutCompletedEvent payload события; суммы строками с двумя знаками
type CheckoutCompletedEvent struct {
	EventID      string         `json:"event_id"`
	EventType    string         `json:"event_type"`
	EventVersion int            `json:"event_version"`
	OccurredAt   string         `json:"occurred_at"`
	OrderID      string         `json:"order_id"`
	SessionID    string         `json:"session_id"`
	TotalItems   int            `json:"total_items"`
	Subtotal     string         `json:"subtotal"`
	Shipping     string         `json:"shipping"`
	Total        string         `json:"total"`
	Lines        []CheckoutLine `json:"lines"`
}

// NewCheckoutCompletedEvent собирает payload из заказа
func NewCheckoutCompletedEvent(order service.Order) CheckoutCompletedEvent {
	lines := make([]CheckoutLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, CheckoutLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}

	return CheckoutCompletedEvent{
		EventID:      uuid.NewString(),
		EventType:    EventTypeCheckoutCompleted,
		EventVersion: 1,
		OccurredAt:   order.PlacedAt.UTC().Format(time.RFC3339),
		OrderID:      order.ID,
		SessionID:    order.SessionID,
		TotalItems:   order.TotalItems,
		Subtotal:     order.Subtotal.StringFixed(2),
		Shipping:     order.Shipping.StringFixed(2),
		Total:        order.Total.StringFixed(2),
		Lines:        lines,
	}
}

// messageWriter часть kafka.Writer, нужная publisher'у
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CheckoutPublisher реализует service.CheckoutPublisher используя Kafka
type CheckoutPublisher struct {
	logger *zap.Logger
	writer messageWriter
	topic  string
}

// NewCheckoutPublisher создаёт Kafka publisher событий оформления
func NewCheckoutPublisher(logger *zap.Logger, brokers []string, topic string) *CheckoutPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &CheckoutPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Close закрывает Kafka writer
func (p *CheckoutPublisher) Close() error {
	return p.writer.Close()
}

// PublishCheckoutCompleted публикует событие; ключ сообщения - session id,
// чтобы заказы одной сессии шли в одну партицию
func (p *CheckoutPublisher) PublishCheckoutCompleted(ctx context.Context, order service.Order) error {
	event := NewCheckoutCompletedEvent(order)

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal checkout event",
			zap.Error(err),
			zap.String("order_id", order.ID),
		)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.SessionID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeCheckoutCompleted)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish checkout event",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("order_id", order.ID),
		)
		return err
	}

	p.logger.Info("checkout event published",
		zap.String("topic", p.topic),
		zap.String("order_id", order.ID),
		zap.String("event_id", event.EventID),
	)
	return nil
}

// LogPublisher пишет событие в лог вместо Kafka (KAFKA_ENABLED=false)
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher создаёт LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishCheckoutCompleted логирует событие
func (p *LogPublisher) PublishCheckoutCompleted(ctx context.Context, order service.Order) error {
	event := NewCheckoutCompletedEvent(order)
	p.logger.Info("checkout event (kafka disabled)",
		zap.String("event_id", event.EventID),
		zap.String("order_id", event.OrderID),
		zap.Int("total_items", event.TotalItems),
		zap.String("total", event.Total),
	)
	return nil
}
