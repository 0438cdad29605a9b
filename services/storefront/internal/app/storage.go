package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	platformhealth "github.com/omeldon/purrfect-cafe/platform/health/http"
	platformshutdown "github.com/omeldon/purrfect-cafe/platform/shutdown"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/config"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/memory"
	mongorepo "github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/mongo"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/postgres"
	redisrepo "github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/redis"
)

// storage хранилище состояния корзины и подписчиков рассылки
type storage struct {
	state       repository.StateRepository
	subscribers repository.SubscriberRepository
	readiness   platformhealth.Readiness
	// closers регистрируются в shutdown manager; при ошибке Build вызываются сразу
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (s *storage) closeAll(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].fn(ctx)
	}
}

// openStorage подключает хранилище по STORAGE_BACKEND
func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, cart state is lost on restart")
		return &storage{
			state:       memory.NewStateRepository(),
			subscribers: memory.NewSubscriberRepository(),
		}, nil

	case config.StorageRedis:
		logger.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr))
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("Redis connection established")

		return &storage{
			state:       redisrepo.NewStateRepository(client, cfg.StateTTL, logger),
			subscribers: redisrepo.NewSubscriberRepository(client),
			readiness: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			closers: []closer{{name: "redis_client", fn: platformshutdown.Close(client)}},
		}, nil

	case config.StoragePostgres:
		logger.Info("Applying PostgreSQL migrations")
		if err := postgres.Migrate(ctx, cfg.PostgresDSN); err != nil {
			return nil, err
		}

		logger.Info("Connecting to PostgreSQL")
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		// Проверяем подключение к PostgreSQL
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Info("PostgreSQL connection established")

		return &storage{
			state:       postgres.NewStateRepository(pool),
			subscribers: postgres.NewSubscriberRepository(pool),
			readiness:   pool.Ping,
			closers:     []closer{{name: "postgres_pool", fn: platformshutdown.ClosePool(pool)}},
		}, nil

	case config.StorageMongo:
		logger.Info("Connecting to MongoDB", zap.String("db", cfg.MongoDB))
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}

		state, err := mongorepo.NewStateRepository(ctx, client, cfg.MongoDB)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		subscribers, err := mongorepo.NewSubscriberRepository(ctx, client, cfg.MongoDB)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Info("MongoDB connection established")

		return &storage{
			state:       state,
			subscribers: subscribers,
			readiness: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			closers: []closer{{name: "mongo_client", fn: platformshutdown.DisconnectMongo(client)}},
		}, nil
	}

	return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
}
