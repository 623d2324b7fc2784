package catalog

import (
	"context"
	"testing"

	redislib "github.com/redis/go-redis/v9"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	products []models.Product
	calls    int
}

func (s *stubLoader) ListAll(ctx context.Context) ([]models.Product, error) {
	s.calls++
	return s.products, nil
}

type stubBus struct {
	published []string
}

func (b *stubBus) Publish(ctx context.Context, channel string, payload any) error {
	b.published = append(b.published, channel)
	return nil
}

func (b *stubBus) Subscribe(ctx context.Context, channels ...string) (*redislib.PubSub, error) {
	return nil, nil
}

func TestCacheReloadReplacesSnapshot(t *testing.T) {
	t.Parallel()

	loader := &stubLoader{products: []models.Product{{Name: "Moonlit Print"}}}
	cache, err := NewCache(loader, &stubBus{}, "shadow:catalog:changed", nil)
	require.NoError(t, err)

	require.NoError(t, cache.Reload(context.Background()))
	assert.Len(t, cache.Snapshot(), 1)

	loader.products = []models.Product{{Name: "Moonlit Print"}, {Name: "Velvet Mask"}}
	require.NoError(t, cache.Reload(context.Background()))
	assert.Len(t, cache.Snapshot(), 2)
	assert.Equal(t, 2, loader.calls)
}

func TestCacheInvalidatePublishesOnChannel(t *testing.T) {
	t.Parallel()

	bus := &stubBus{}
	cache, err := NewCache(&stubLoader{}, bus, "shadow:catalog:changed", nil)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(context.Background()))
	require.Len(t, bus.published, 1)
	assert.Equal(t, "shadow:catalog:changed", bus.published[0])
}

func TestNewCacheValidatesDeps(t *testing.T) {
	t.Parallel()

	_, err := NewCache(nil, &stubBus{}, "ch", nil)
	assert.Error(t, err)

	_, err = NewCache(&stubLoader{}, nil, "ch", nil)
	assert.Error(t, err)

	_, err = NewCache(&stubLoader{}, &stubBus{}, "", nil)
	assert.Error(t, err)
}
