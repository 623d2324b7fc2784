package discounts

import (
	"context"
	"testing"

	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubFinder struct {
	codes map[string]*models.DiscountCode
}

func (s *stubFinder) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	if record, ok := s.codes[code]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestResolverCanonicalizesInput(t *testing.T) {
	t.Parallel()

	finder := &stubFinder{codes: map[string]*models.DiscountCode{
		"SHADOW10": {Code: "SHADOW10", Percent: decimal.NewFromInt(10)},
	}}
	resolver, err := NewResolver(finder)
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), "  shadow10 ")
	require.NoError(t, err)
	assert.Equal(t, "SHADOW10", resolved.Code)
	assert.True(t, resolved.Percent.Equal(decimal.NewFromInt(10)))
}

func TestResolverMissReturnsNotFound(t *testing.T) {
	t.Parallel()

	resolver, err := NewResolver(&stubFinder{})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "BOGUS")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestResolverEmptyCodeIsValidationError(t *testing.T) {
	t.Parallel()

	resolver, err := NewResolver(&stubFinder{})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
