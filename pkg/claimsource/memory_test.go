package claimsource_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/claimkit/pkg/claimsource"
)

func TestMemorySource_CRUD(t *testing.T) {
	ctx := context.Background()
	src := claimsource.NewMemorySource()
	userID := uuid.NewString()

	t.Run("get before set", func(t *testing.T) {
		_, err := src.Get(ctx, "st-role", userID)
		assert.ErrorIs(t, err, claimsource.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, src.Set(ctx, "st-role", userID, "admin"))

		value, err := src.Get(ctx, "st-role", userID)
		require.NoError(t, err)
		assert.Equal(t, "admin", value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, src.Set(ctx, "st-role", userID, "user"))

		value, err := src.Get(ctx, "st-role", userID)
		require.NoError(t, err)
		assert.Equal(t, "user", value)
	})

	t.Run("values are isolated per user", func(t *testing.T) {
		otherID := uuid.NewString()
		require.NoError(t, src.Set(ctx, "st-role", otherID, "owner"))

		value, err := src.Get(ctx, "st-role", userID)
		require.NoError(t, err)
		assert.Equal(t, "user", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, src.Delete(ctx, "st-role", userID))

		_, err := src.Get(ctx, "st-role", userID)
		assert.ErrorIs(t, err, claimsource.ErrNotFound)
	})

	t.Run("delete absent value is a no-op", func(t *testing.T) {
		assert.NoError(t, src.Delete(ctx, "st-role", uuid.NewString()))
	})

	t.Run("empty identifiers are rejected", func(t *testing.T) {
		_, err := src.Get(ctx, "", userID)
		assert.ErrorIs(t, err, claimsource.ErrInvalidKey)

		err = src.Set(ctx, "st-role", "", true)
		assert.ErrorIs(t, err, claimsource.ErrInvalidKey)
	})
}

func TestMemorySource_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	src := claimsource.NewMemorySource()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.NewString()
			assert.NoError(t, src.Set(ctx, "st-role", userID, "admin"))

			value, err := src.Get(ctx, "st-role", userID)
			assert.NoError(t, err)
			assert.Equal(t, "admin", value)
		}()
	}
	wg.Wait()
}
