//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mongoContainer.Terminate(ctx))
	}()

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	t.Run("state Save, Load and Delete", func(t *testing.T) {
		repo, err := NewStateRepository(ctx, client, "storefront_test")
		require.NoError(t, err)
		key := "purrfect-brew-storage:session-1"

		_, err = repo.Load(ctx, key)
		require.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, repo.Save(ctx, key, []byte(`{"cart":[],"wishlist":[]}`)))
		require.NoError(t, repo.Save(ctx, key, []byte(`{"cart":[],"wishlist":[3]}`)))

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		require.JSONEq(t, `{"cart":[],"wishlist":[3]}`, string(got))

		require.NoError(t, repo.Delete(ctx, key))
		_, err = repo.Load(ctx, key)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("subscriber Add is idempotent", func(t *testing.T) {
		repo, err := NewSubscriberRepository(ctx, client, "storefront_test")
		require.NoError(t, err)

		created, err := repo.Add(ctx, repository.Subscriber{Email: "kitty@purrfect.cafe", SubscribedAt: time.Now()})
		require.NoError(t, err)
		require.True(t, created)

		created, err = repo.Add(ctx, repository.Subscriber{Email: "Kitty@Purrfect.cafe", SubscribedAt: time.Now()})
		require.NoError(t, err)
		require.False(t, created)
	})
}
