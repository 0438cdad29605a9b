package main

import (
	"log"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/app"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/config"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build собирает граф зависимостей и инициализирует все компоненты
	application, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	// Run блокируется до graceful shutdown
	if err := application.Run(); err != nil {
		log.Fatalf("Service error: %v", err)
	}
}
