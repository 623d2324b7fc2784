package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shadowgallery/shadowgallery-backend/api/responses"
	"github.com/shadowgallery/shadowgallery-backend/api/validators"
	ordersvc "github.com/shadowgallery/shadowgallery-backend/internal/orders"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db/models"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
	"github.com/shadowgallery/shadowgallery-backend/pkg/pagination"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListMyOrders pages through the signed-in customer's order history.
func ListMyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListMyOrders(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderPageResponse(page))
	}
}

// GetMyOrder returns one of the caller's own orders.
func GetMyOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetMyOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}

type orderResponse struct {
	ID        uuid.UUID  `json:"id"`
	Partition string     `json:"partition"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`

	Subtotal       decimal.Decimal  `json:"subtotal"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	Tax            decimal.Decimal  `json:"tax"`
	Total          decimal.Decimal  `json:"total"`
	DiscountCode   *string          `json:"discount_code,omitempty"`
	DiscountPct    *decimal.Decimal `json:"discount_pct,omitempty"`

	ShipName    string `json:"ship_name"`
	ShipEmail   string `json:"ship_email"`
	ShipAddress string `json:"ship_address"`
	ShipCity    string `json:"ship_city"`
	ShipZip     string `json:"ship_zip"`

	CardLast4  string `json:"card_last4"`
	CardExpiry string `json:"card_expiry"`

	Status    string              `json:"status"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`
}

type orderPageResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
	Total      int64           `json:"total"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	return orderResponse{
		ID:             order.ID,
		Partition:      string(order.Partition),
		UserID:         order.UserID,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		Tax:            order.Tax,
		Total:          order.Total,
		DiscountCode:   order.DiscountCode,
		DiscountPct:    order.DiscountPct,
		ShipName:       order.ShipName,
		ShipEmail:      order.ShipEmail,
		ShipAddress:    order.ShipAddress,
		ShipCity:       order.ShipCity,
		ShipZip:        order.ShipZip,
		CardLast4:      order.CardLast4,
		CardExpiry:     order.CardExpiry,
		Status:         string(order.Status),
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}

func newOrderPageResponse(page ordersvc.ListPage) orderPageResponse {
	out := make([]orderResponse, 0, len(page.Orders))
	for i := range page.Orders {
		out = append(out, newOrderResponse(&page.Orders[i]))
	}
	return orderPageResponse{
		Orders:     out,
		NextCursor: page.NextCursor,
		Total:      page.Total,
	}
}
