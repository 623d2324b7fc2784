package controllers

import (
	"net/http"

	"github.com/shadowgallery/shadowgallery-backend/api/responses"
	"github.com/shadowgallery/shadowgallery-backend/api/validators"
	checkoutsvc "github.com/shadowgallery/shadowgallery-backend/internal/checkout"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
)

// Checkout turns the caller's cart into an order. Works for guests and
// signed-in users; the auth context decides the order partition.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		token, err := requireCartToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := optionalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), checkoutsvc.PlaceOrderInput{
			CartToken: token,
			UserID:    userID,
			Shipping: checkoutsvc.ShippingDetails{
				Name:    payload.Shipping.Name,
				Email:   payload.Shipping.Email,
				Address: payload.Shipping.Address,
				City:    payload.Shipping.City,
				Zip:     payload.Shipping.Zip,
			},
			Payment: checkoutsvc.PaymentDetails{
				CardNumber: payload.Payment.CardNumber,
				Expiry:     payload.Payment.Expiry,
				CVC:        payload.Payment.CVC,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type checkoutRequest struct {
	Shipping shippingPayload `json:"shipping" validate:"required"`
	Payment  paymentPayload  `json:"payment" validate:"required"`
}

type shippingPayload struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
}

type paymentPayload struct {
	CardNumber string `json:"card_number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVC        string `json:"cvc" validate:"required"`
}
