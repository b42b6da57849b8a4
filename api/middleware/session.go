package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

// SessionHeader carries the session id for clients that do not keep cookies.
const SessionHeader = "X-Session-Id"

// Session resolves the caller's cart session. A valid SessionHeader wins over the cookie;
// otherwise the cookie is read and a new one issued when absent.
func Session(identity *session.Identity, opts session.CookieOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity == nil || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if !session.IsValid(sessionID) {
				store := session.NewCookieStore(w, r, opts)
				sessionID = identity.SessionID(r.Context(), store)
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
