package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type setCartItemRequest struct {
	Qty *int `json:"qty" validate:"required,gte=0,lte=999"`
}

func CartShow(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartSetItem sets the quantity of one line. A zero quantity removes it.
func CartSetItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetItem(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "productId"), *body.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
