package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shadowgallery/shadowgallery-backend/api/responses"
	"github.com/shadowgallery/shadowgallery-backend/api/validators"
	discountsvc "github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
)

// AdminCreateDiscount mints a new percentage-off code.
func AdminCreateDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var payload createDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, err := svc.CreateCode(r.Context(), discountsvc.CreateCodeInput{
			Code:    payload.Code,
			Percent: payload.Percent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newDiscountResponse(code))
	}
}

// AdminListDiscounts returns every active code.
func AdminListDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		codes, err := svc.ListCodes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]discountResponse, 0, len(codes))
		for i := range codes {
			out = append(out, newDiscountResponse(&codes[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminDeleteDiscount retires a code. Carts holding it keep their snapshot
// until checkout re-resolves it.
func AdminDeleteDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		codeID, err := validators.ParsePathUUID(chi.URLParam(r, "discountID"), "discount id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCode(r.Context(), codeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createDiscountRequest struct {
	Code    string          `json:"code" validate:"required"`
	Percent decimal.Decimal `json:"percent" validate:"required"`
}

type discountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Percent   decimal.Decimal `json:"percent"`
	CreatedAt time.Time       `json:"created_at"`
}

func newDiscountResponse(code *models.DiscountCode) discountResponse {
	return discountResponse{
		ID:        code.ID,
		Code:      code.Code,
		Percent:   code.Percent,
		CreatedAt: code.CreatedAt,
	}
}
