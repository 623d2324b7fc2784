package reviews

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

type stubReviewStore struct {
	created []*models.Review
	deleted []uuid.UUID
}

func (s *stubReviewStore) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.ID = uuid.New()
	s.created = append(s.created, review)
	return review, nil
}

func (s *stubReviewStore) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var records []models.Review
	for _, review := range s.created {
		if review.ProductID == productID {
			records = append(records, *review)
		}
	}
	return records, nil
}

func (s *stubReviewStore) List(ctx context.Context) ([]models.Review, error) {
	var records []models.Review
	for _, review := range s.created {
		records = append(records, *review)
	}
	return records, nil
}

func (s *stubReviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i, review := range s.created {
		if review.ID == id {
			s.created = append(s.created[:i], s.created[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
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

func newReviewsService(t *testing.T, store *stubReviewStore, productID uuid.UUID) Service {
	t.Helper()

	svc, err := NewService(store, &stubProductLoader{known: map[uuid.UUID]bool{productID: true}})
	require.NoError(t, err)
	return svc
}

func TestCreateReviewValidation(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := newReviewsService(t, &stubReviewStore{}, productID)

	base := CreateReviewInput{
		ProductID:  productID,
		UserID:     uuid.New(),
		AuthorName: "Christine",
		Body:       "Lovely.",
		Rating:     5,
	}

	for _, rating := range []int{0, -1, 6} {
		input := base
		input.Rating = rating
		_, err := svc.CreateReview(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}

	input := base
	input.Body = "   "
	_, err := svc.CreateReview(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newReviewsService(t, &stubReviewStore{}, uuid.New())

	_, err := svc.CreateReview(context.Background(), CreateReviewInput{
		ProductID: uuid.New(),
		UserID:    uuid.New(),
		Body:      "Ghost product.",
		Rating:    4,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateReviewStoresSnapshot(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	store := &stubReviewStore{}
	svc := newReviewsService(t, store, productID)

	created, err := svc.CreateReview(context.Background(), CreateReviewInput{
		ProductID:  productID,
		UserID:     uuid.New(),
		AuthorName: "  Christine  ",
		Body:       "  Hauntingly beautiful.  ",
		Rating:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Christine", created.AuthorName)
	assert.Equal(t, "Hauntingly beautiful.", created.Body)
	require.Len(t, store.created, 1)
}

func TestListAllSpansProducts(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	store := &stubReviewStore{
		created: []*models.Review{
			{ID: uuid.New(), ProductID: productID, Body: "First"},
			{ID: uuid.New(), ProductID: uuid.New(), Body: "Second"},
		},
	}
	svc := newReviewsService(t, store, productID)

	records, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDeleteReviewNotFound(t *testing.T) {
	t.Parallel()

	svc := newReviewsService(t, &stubReviewStore{}, uuid.New())

	err := svc.DeleteReview(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
