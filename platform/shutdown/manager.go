package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Manager собирает shutdown функции и выполняет их в обратном порядке регистрации
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	funcs []shutdownFunc
}

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// New создаёт Manager; timeout применяется к каждой функции отдельно
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Add регистрирует функцию остановки.
// Последняя зарегистрированная выполняется первой.
func (m *Manager) Add(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, shutdownFunc{name: name, fn: fn})
}

// Wait блокируется до SIGINT/SIGTERM, затем вызывает Shutdown
func (m *Manager) Wait() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	m.logger.Info("Received shutdown signal, starting graceful shutdown")

	m.Shutdown()
}

// Shutdown выполняет все функции (LIFO) и возвращает количество упавших
func (m *Manager) Shutdown() int {
	m.mu.Lock()
	funcs := make([]shutdownFunc, len(m.funcs))
	copy(funcs, m.funcs)
	m.funcs = nil
	m.mu.Unlock()

	failed := 0
	for i := len(funcs) - 1; i >= 0; i-- {
		f := funcs[i]

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		start := time.Now()
		err := f.fn(ctx)
		cancel()

		if err != nil {
			failed++
			m.logger.Error("Shutdown function failed",
				zap.String("name", f.name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)))
			continue
		}
		m.logger.Info("Shutdown function completed",
			zap.String("name", f.name),
			zap.Duration("duration", time.Since(start)))
	}

	m.logger.Info("Graceful shutdown completed", zap.Int("failed", failed))
	return failed
}

// ShutdownHTTPServer оборачивает http.Server.Shutdown
func ShutdownHTTPServer(srv interface {
	Shutdown(context.Context) error
}) func(context.Context) error {
	return func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	}
}

// ShutdownGRPCServer делает GracefulStop, а по таймауту контекста Stop
func ShutdownGRPCServer(srv interface {
	GracefulStop()
	Stop()
}) func(context.Context) error {
	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return fmt.Errorf("graceful stop timeout exceeded, forced stop")
		}
	}
}

// DisconnectMongo оборачивает mongo.Client.Disconnect
func DisconnectMongo(client interface {
	Disconnect(context.Context) error
}) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Disconnect(ctx)
	}
}

// ClosePool для ресурсов с Close() без ошибки (pgxpool.Pool)
func ClosePool(pool interface {
	Close()
}) func(context.Context) error {
	return func(ctx context.Context) error {
		pool.Close()
		return nil
	}
}

// Close для ресурсов с Close() error (redis.Client, kafka.Writer)
func Close(c interface {
	Close() error
}) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.Close()
	}
}

// SetHealthNotServing переводит readiness в NOT_SERVING до остановки серверов
func SetHealthNotServing(health interface {
	SetNotServing(string)
}) func(context.Context) error {
	return func(ctx context.Context) error {
		health.SetNotServing("")
		return nil
	}
}
