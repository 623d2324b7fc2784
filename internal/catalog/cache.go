package catalog

import (
	"context"
	"fmt"
	"sync"

	redislib "github.com/redis/go-redis/v9"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
)

type listLoader interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

type notifyBus interface {
	Publish(ctx context.Context, channel string, payload any) error
	Subscribe(ctx context.Context, channels ...string) (*redislib.PubSub, error)
}

// Cache holds the full catalog in memory and swaps it wholesale when a change
// notification arrives. Readers always see a consistent snapshot; there is no
// per-product patching.
type Cache struct {
	mu       sync.RWMutex
	products []models.Product

	loader  listLoader
	bus     notifyBus
	channel string
	logg    *logger.Logger
}

// NewCache builds the catalog cache. Start must be called before reads.
func NewCache(loader listLoader, bus notifyBus, channel string, logg *logger.Logger) (*Cache, error) {
	if loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if bus == nil {
		return nil, fmt.Errorf("notify bus required")
	}
	if channel == "" {
		return nil, fmt.Errorf("notify channel required")
	}
	return &Cache{
		loader:  loader,
		bus:     bus,
		channel: channel,
		logg:    logg,
	}, nil
}

// Start performs the initial load and begins listening for change
// notifications. The listener goroutine exits when ctx is cancelled.
func (c *Cache) Start(ctx context.Context) error {
	if err := c.Reload(ctx); err != nil {
		return err
	}

	sub, err := c.bus.Subscribe(ctx, c.channel)
	if err != nil {
		return err
	}

	go c.listen(ctx, sub)
	return nil
}

func (c *Cache) listen(ctx context.Context, sub *redislib.PubSub) {
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = msg
			if err := c.Reload(ctx); err != nil && c.logg != nil {
				c.logg.Error(ctx, "catalog cache reload failed", err)
			}
		}
	}
}

// Reload fetches the full catalog and replaces the snapshot.
func (c *Cache) Reload(ctx context.Context) error {
	products, err := c.loader.ListAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
	return nil
}

// Snapshot returns the current catalog. The returned slice must not be
// mutated by callers.
func (c *Cache) Snapshot() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

// Invalidate broadcasts a change notification so every instance, including
// this one, reloads its snapshot.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.bus.Publish(ctx, c.channel, "changed")
}
