package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/notifications"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// NotificationsOrderConfirmation sends the confirmation email for an order. Field presence is
// checked by the service so missing email or orderId surface as its validation error.
func NotificationsOrderConfirmation(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			_, _ = io.Copy(io.Discard, r.Body)
		}()

		var body notifications.Request
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		if err := svc.SendOrderConfirmation(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
