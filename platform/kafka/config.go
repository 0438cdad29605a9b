package kafka

// Config общие настройки подключения к Kafka
type Config struct {
	// Brokers список брокеров через запятую:
	//   - go run на хосте: localhost:19092
	//   - внутри docker compose: kafka:9092
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:19092"`
	// Topic топик событий оформления заказа
	Topic string `env:"KAFKA_CHECKOUT_TOPIC" envDefault:"storefront.checkout.completed"`
	// GroupID consumer group для читателей (checkout-tail)
	GroupID string `env:"KAFKA_GROUP_ID" envDefault:"checkout-tail"`
}

// DefaultConfig дефолты для локальной разработки
func DefaultConfig() Config {
	return Config{
		Brokers: []string{"localhost:19092"},
		Topic:   "storefront.checkout.completed",
		GroupID: "checkout-tail",
	}
}
