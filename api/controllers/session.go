package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
)

// SessionShow returns the session id resolved by the session middleware.
func SessionShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"session_id": middleware.SessionIDFromContext(r.Context())})
	}
}
