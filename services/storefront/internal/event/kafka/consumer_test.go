package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// queueReader отдаёт сообщения по очереди, затем отменяет ctx
type queueReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *queueReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *queueReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *queueReader) Close() error { return nil }

func TestCheckoutConsumer_Start(t *testing.T) {
	valid, err := json.Marshal(NewCheckoutCompletedEvent(testOrder()))
	require.NoError(t, err)

	failing := NewCheckoutCompletedEvent(testOrder())
	failing.OrderID = "order-fail"
	failingValue, err := json.Marshal(failing)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &queueReader{
		msgs: []kafka.Message{
			{Offset: 1, Value: valid},
			{Offset: 2, Value: []byte("not json")},
			{Offset: 3, Value: []byte(`{"event_type":"other.event","order_id":"x"}`)},
			{Offset: 4, Value: failingValue},
		},
		cancel: cancel,
	}

	var handled []string
	c := &CheckoutConsumer{
		logger: zap.NewNop(),
		reader: reader,
		handler: func(_ context.Context, event CheckoutCompletedEvent) error {
			handled = append(handled, event.OrderID)
			if event.OrderID == "order-fail" {
				return errors.New("downstream unavailable")
			}
			return nil
		},
	}

	require.NoError(t, c.Start(ctx))

	assert.Equal(t, []string{"order-1", "order-fail"}, handled)
	// Битые сообщения коммитятся, упавшая обработка нет
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}
