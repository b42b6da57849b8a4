package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type logoResolver interface {
	LogoURL(ctx context.Context, mode enums.DisplayMode) (string, error)
}

// BrandingLogo returns the logo URL for ?mode=light|dark (light by default).
func BrandingLogo(cache logoResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode")))
		if raw == "" {
			raw = string(enums.DisplayModeLight)
		}
		mode, err := enums.ParseDisplayMode(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "mode must be light or dark"))
			return
		}

		url, err := cache.LogoURL(r.Context(), mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"mode": string(mode), "logo_url": url})
	}
}
