package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shadowgallery/shadowgallery-backend/api/middleware"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
)

// requireUserID extracts the authenticated user from the request context.
func requireUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// optionalUserID returns the authenticated user when present, nil otherwise.
func optionalUserID(r *http.Request) (*uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return &id, nil
}

// requireCartToken extracts the cart token seeded by the cart middleware.
func requireCartToken(r *http.Request) (string, error) {
	token := middleware.CartTokenFromContext(r.Context())
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return token, nil
}
