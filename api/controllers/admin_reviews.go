package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shadowgallery/shadowgallery-backend/api/responses"
	"github.com/shadowgallery/shadowgallery-backend/api/validators"
	reviewsvc "github.com/shadowgallery/shadowgallery-backend/internal/reviews"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
)

// AdminListReviews returns every review across the catalog for the
// moderation queue.
func AdminListReviews(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		records, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newReviewListResponse(records))
	}
}

// AdminDeleteReview removes a review for moderation.
func AdminDeleteReview(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		reviewID, err := validators.ParsePathUUID(chi.URLParam(r, "reviewID"), "review id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteReview(r.Context(), reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
