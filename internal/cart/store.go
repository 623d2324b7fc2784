package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
)

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(cartToken string) string
}

// SessionStore persists cart snapshots in Redis keyed by cart token. Every
// write refreshes the TTL, so an idle cart expires with its session.
type SessionStore struct {
	store snapshotStore
	ttl   time.Duration
}

// NewSessionStore builds a redis-backed cart store.
func NewSessionStore(store snapshotStore, ttl time.Duration) (*SessionStore, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &SessionStore{store: store, ttl: ttl}, nil
}

// Load returns the cart for the token, or a fresh empty cart when no
// snapshot exists.
func (s *SessionStore) Load(ctx context.Context, token string) (*Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}

	raw, err := s.store.Get(ctx, s.store.CartKey(token))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart snapshot")
	}
	return &cart, nil
}

// Save writes the cart snapshot and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, token string, cart *Cart) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if cart == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode cart snapshot")
	}
	if err := s.store.Set(ctx, s.store.CartKey(token), string(raw), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Delete removes the cart snapshot entirely.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if err := s.store.Del(ctx, s.store.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return nil
}
