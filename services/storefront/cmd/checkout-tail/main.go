// Package main читает события оформленных заказов витрины и пишет их в лог.
//
// По умолчанию подключается к localhost:19092 и топику storefront.checkout.completed.
// Переопределяется через KAFKA_BROKERS, KAFKA_CHECKOUT_TOPIC и KAFKA_GROUP_ID.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	platformkafka "github.com/omeldon/purrfect-cafe/platform/kafka"
	platformlogging "github.com/omeldon/purrfect-cafe/platform/logging"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/event/kafka"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализируем платформенный логгер
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: "checkout-tail",
		Env:         "local",
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      "console",
	})
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer platformlogging.Sync(logger)

	// Загружаем конфигурацию Kafka из переменных окружения
	cfg := platformkafka.DefaultConfig()
	if err := platformkafka.LoadEnv(&cfg); err != nil {
		logger.Error("failed to load kafka config", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("kafka config loaded",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
	)

	consumer := kafka.NewCheckoutConsumer(logger, cfg.Brokers, cfg.GroupID, cfg.Topic, logOrder(logger))
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("failed to close kafka reader", zap.Error(err))
		}
	}()

	if err := consumer.Start(ctx); err != nil {
		logger.Error("consumer stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func logOrder(logger *zap.Logger) kafka.CheckoutHandler {
	return func(_ context.Context, event kafka.CheckoutCompletedEvent) error {
		fields := []zap.Field{
			zap.String("order_id", event.OrderID),
			zap.String("session_id", event.SessionID),
			zap.String("occurred_at", event.OccurredAt),
			zap.Int("total_items", event.TotalItems),
			zap.String("subtotal", event.Subtotal),
			zap.String("shipping", event.Shipping),
			zap.String("total", event.Total),
		}
		logger.Info("checkout completed", fields...)

		for _, l := range event.Lines {
			logger.Info("  order line",
				zap.String("order_id", event.OrderID),
				zap.Int("product_id", l.ProductID),
				zap.String("name", l.Name),
				zap.Int("quantity", l.Quantity),
				zap.String("line_total", l.LineTotal),
			)
		}
		return nil
	}
}
