package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubWishlistStore struct {
	added   []uuid.UUID
	removed []uuid.UUID
}

func (s *stubWishlistStore) Add(ctx context.Context, userID, productID uuid.UUID) error {
	s.added = append(s.added, productID)
	return nil
}

func (s *stubWishlistStore) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	s.removed = append(s.removed, productID)
	return nil
}

func (s *stubWishlistStore) ListProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

type stubProductLoader struct {
	known map[uuid.UUID]bool
}

func (s *stubProductLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.known[id] {
		return &models.Product{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestSaveProductChecksCatalog(t *testing.T) {
	t.Parallel()

	store := &stubWishlistStore{}
	productID := uuid.New()
	svc, err := NewService(store, &stubProductLoader{known: map[uuid.UUID]bool{productID: true}})
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, svc.SaveProduct(context.Background(), userID, productID))
	assert.Len(t, store.added, 1)

	err = svc.SaveProduct(context.Background(), userID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Len(t, store.added, 1)
}

func TestSaveProductValidatesIDs(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubWishlistStore{}, &stubProductLoader{})
	require.NoError(t, err)

	err = svc.SaveProduct(context.Background(), uuid.Nil, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = svc.UnsaveProduct(context.Background(), uuid.New(), uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUnsaveProductSkipsCatalogCheck(t *testing.T) {
	t.Parallel()

	store := &stubWishlistStore{}
	svc, err := NewService(store, &stubProductLoader{})
	require.NoError(t, err)

	require.NoError(t, svc.UnsaveProduct(context.Background(), uuid.New(), uuid.New()))
	assert.Len(t, store.removed, 1)
}
