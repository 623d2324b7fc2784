package discounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateCodeCanonicalizes(t *testing.T) {
	db := setupDiscountsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	created, err := svc.CreateCode(context.Background(), CreateCodeInput{
		Code:    "  shadow10 ",
		Percent: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "SHADOW10", created.Code)
}

func TestServiceCreateCodeValidation(t *testing.T) {
	db := setupDiscountsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.CreateCode(context.Background(), CreateCodeInput{Code: "", Percent: decimal.NewFromInt(10)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateCode(context.Background(), CreateCodeInput{Code: "ZERO", Percent: decimal.Zero})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateCode(context.Background(), CreateCodeInput{Code: "BIG", Percent: decimal.NewFromInt(150)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceCreateCodeDuplicateConflict(t *testing.T) {
	db := setupDiscountsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.CreateCode(context.Background(), CreateCodeInput{Code: "TWICE", Percent: decimal.NewFromInt(10)})
	require.NoError(t, err)

	_, err = svc.CreateCode(context.Background(), CreateCodeInput{Code: "twice", Percent: decimal.NewFromInt(20)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestServiceDeleteCodeNotFound(t *testing.T) {
	db := setupDiscountsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	err = svc.DeleteCode(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
