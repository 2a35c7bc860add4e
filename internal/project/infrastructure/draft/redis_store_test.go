package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fangzhou-tech/flipops/internal/project/domain"
	"github.com/fangzhou-tech/flipops/pkg/errs"
)

func newTestStore(t *testing.T) (domain.DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisDraftStore(client), mr
}

func TestDraftRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	key := domain.DraftKey(42, "project_create")
	payload := []byte(`{"name":"阳光花园 3-201","community":"阳光花园"}`)

	require.NoError(t, store.Set(ctx, key, payload, time.Hour))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDraftMissingIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), domain.DraftKey(1, "project_create"))
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestDraftClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	key := domain.DraftKey(42, "project_create")

	require.NoError(t, store.Set(ctx, key, []byte("{}"), time.Hour))
	require.NoError(t, store.Clear(ctx, key))

	_, err := store.Get(ctx, key)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestDraftExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	key := domain.DraftKey(42, "project_create")

	require.NoError(t, store.Set(ctx, key, []byte("{}"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, key)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestDraftKeysIsolatedPerUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.DraftKey(1, "project_create"), []byte("a"), time.Hour))
	require.NoError(t, store.Set(ctx, domain.DraftKey(2, "project_create"), []byte("b"), time.Hour))

	got, err := store.Get(ctx, domain.DraftKey(1, "project_create"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)
}
