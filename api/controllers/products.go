package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	maxSearchQueryLength = 200
	maxImageProductIDs   = 100
)

// ProductsList browses the catalog with an optional search term.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive, err := validators.ParseQueryBool(r, "include_inactive", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Browse(r.Context(), catalog.BrowseInput{
			Query:           validators.SanitizeString(r.URL.Query().Get("q"), maxSearchQueryLength),
			IncludeInactive: includeInactive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductImages lists the gallery images of the requested products.
func ProductImages(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := validators.ParseQueryList(r, "product_ids", maxImageProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := svc.ProductImages(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}
