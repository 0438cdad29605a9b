package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/service"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func testOrder() service.Order {
	return service.Order{
		ID:        "order-1",
		SessionID: "session-1",
		Lines: []service.OrderLine{
			{
				ProductID: 4,
				Name:      "Tabby's Treat",
				UnitPrice: decimal.RequireFromString("18.99"),
				Quantity:  2,
				LineTotal: decimal.RequireFromString("37.98"),
			},
		},
		Quote: service.Quote{
			Subtotal: decimal.RequireFromString("37.98"),
			Shipping: decimal.RequireFromString("4.99"),
			Total:    decimal.RequireFromString("42.97"),
		},
		TotalItems: 2,
		PlacedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCheckoutPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &CheckoutPublisher{logger: zap.NewNop(), writer: w, topic: "storefront.checkout.completed"}

	require.NoError(t, p.PublishCheckoutCompleted(context.Background(), testOrder()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "session-1", string(msg.Key))

	var event CheckoutCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, EventTypeCheckoutCompleted, event.EventType)
	assert.Equal(t, "2025-03-01T12:00:00Z", event.OccurredAt)
	assert.Equal(t, "42.97", event.Total)
	assert.Equal(t, "4.99", event.Shipping)
	require.Len(t, event.Lines, 1)
	assert.Equal(t, "18.99", event.Lines[0].UnitPrice)
	assert.Equal(t, "37.98", event.Lines[0].LineTotal)
}

func TestCheckoutPublisher_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := &CheckoutPublisher{logger: zap.NewNop(), writer: w, topic: "storefront.checkout.completed"}

	require.Error(t, p.PublishCheckoutCompleted(context.Background(), testOrder()))
}

func TestLogPublisher(t *testing.T) {
	require.NoError(t, NewLogPublisher(zap.NewNop()).PublishCheckoutCompleted(context.Background(), testOrder()))
}
