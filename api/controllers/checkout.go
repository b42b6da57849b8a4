package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type quoteRequest struct {
	PostalCode      string `json:"postal_code" validate:"omitempty,max=12"`
	ExpressDelivery bool   `json:"express_delivery"`
	AddReferBag     bool   `json:"add_refer_bag"`
}

type checkoutRequest struct {
	Customer checkout.CustomerDraft `json:"customer"`
	Origin   string                 `json:"origin" validate:"omitempty,max=2048"`
}

// CheckoutQuote prices the session cart for the chosen delivery options.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft := checkout.CustomerDraft{
			PostalCode:      body.PostalCode,
			ExpressDelivery: body.ExpressDelivery,
			AddReferBag:     body.AddReferBag,
		}
		quote, err := svc.Quote(r.Context(), middleware.SessionIDFromContext(r.Context()), draft)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutPlace converts the session cart into an order.
func CheckoutPlace(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		origin := strings.TrimSpace(body.Origin)
		if origin == "" {
			origin = r.Header.Get("Origin")
		}
		order, err := svc.PlaceOrder(r.Context(), middleware.SessionIDFromContext(r.Context()), body.Customer, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
