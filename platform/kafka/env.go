package kafka

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// LoadEnv перезаписывает cfg значениями из окружения (caarlos0/env/v10)
func LoadEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse kafka env: %w", err)
	}
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	return nil
}
